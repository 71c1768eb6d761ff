package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlDataset = `courses:
  - id: 3
    activities:
      - {name: Welcome, type: page, section: Intro, hits: 4}
      - {name: Quiz, type: quiz, hits: 9, hidden: true}
    browser_os:
      platform_desktop: 8
      os_windows: 5
    learners:
      - {id: 1, name: Ada, lang: en, country: GB, hits: 3}
`

const jsonDataset = `{"courses":[{"id":3,"activities":[{"name":"Welcome","type":"page","hits":4}]}]}`

const tomlDataset = `[[courses]]
id = 3

[[courses.activities]]
name = "Welcome"
type = "page"
hits = 4

[courses.browser_os]
platform_desktop = 8
`

func TestDecodeFormats(t *testing.T) {
	cases := []struct {
		ext  string
		data string
	}{
		{".yaml", yamlDataset},
		{".json", jsonDataset},
		{".toml", tomlDataset},
	}
	for _, tc := range cases {
		ds, err := Decode([]byte(tc.data), tc.ext)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.ext, err)
		}
		if len(ds.Courses) != 1 || ds.Courses[0].ID != 3 {
			t.Fatalf("%s: unexpected courses: %+v", tc.ext, ds.Courses)
		}
		if ds.Courses[0].Activities[0].Name != "Welcome" || ds.Courses[0].Activities[0].Hits != 4 {
			t.Fatalf("%s: unexpected activity: %+v", tc.ext, ds.Courses[0].Activities[0])
		}
	}
}

func TestDecodeYAMLDetails(t *testing.T) {
	ds, err := Decode([]byte(yamlDataset), ".yml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := ds.Courses[0]
	if !c.Activities[1].Hidden {
		t.Fatalf("expected hidden quiz")
	}
	if c.BrowserOS["os_windows"] != 5 {
		t.Fatalf("unexpected browser_os: %v", c.BrowserOS)
	}
	if len(c.Learners) != 1 || c.Learners[0].Country != "GB" {
		t.Fatalf("unexpected learners: %+v", c.Learners)
	}
}

func TestDecodeRejectsUnknownFieldsAndFormats(t *testing.T) {
	if _, err := Decode([]byte(`{"courses":[],"extra":1}`), ".json"); err == nil {
		t.Fatalf("expected error for unknown json field")
	}
	if _, err := Decode([]byte("courses: []\nextra: 1\n"), ".yaml"); err == nil {
		t.Fatalf("expected error for unknown yaml field")
	}
	if _, err := Decode([]byte("x"), ".csv"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if _, err := Decode([]byte(`{"courses":[{"id":0}]}`), ".json"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.YAML")
	if err := os.WriteFile(path, []byte(yamlDataset), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(ds.Courses))
	}
}
