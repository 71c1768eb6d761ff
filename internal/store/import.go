package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/lareport/internal/model"
)

// Dataset is a batch of courses to import.
type Dataset struct {
	Courses []Course `json:"courses" yaml:"courses" toml:"courses"`
}

// Course holds all raw counts stored for one course.
type Course struct {
	ID         int64          `json:"id" yaml:"id" toml:"id"`
	Activities []Activity     `json:"activities" yaml:"activities" toml:"activities"`
	BrowserOS  map[string]int `json:"browser_os" yaml:"browser_os" toml:"browser_os"`
	Learners   []Learner      `json:"learners" yaml:"learners" toml:"learners"`
}

// Activity is one course module with its hit count.
type Activity struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Type    string `json:"type" yaml:"type" toml:"type"`
	Section string `json:"section" yaml:"section" toml:"section"`
	Hidden  bool   `json:"hidden" yaml:"hidden" toml:"hidden"`
	Hits    int    `json:"hits" yaml:"hits" toml:"hits"`
}

// Learner is one enrolled user.
type Learner struct {
	ID      int64  `json:"id" yaml:"id" toml:"id"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Role    string `json:"role" yaml:"role" toml:"role"`
	Lang    string `json:"lang" yaml:"lang" toml:"lang"`
	Country string `json:"country" yaml:"country" toml:"country"`
	Hits    int    `json:"hits" yaml:"hits" toml:"hits"`
}

// Validate checks required fields and counter names.
func (c Course) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("course id must be > 0")
	}
	for i, a := range c.Activities {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Type) == "" {
			return fmt.Errorf("course %d activity %d: name and type are required", c.ID, i)
		}
		if a.Hits < 0 {
			return fmt.Errorf("course %d activity %q: hits must be >= 0", c.ID, a.Name)
		}
	}
	for key, value := range c.BrowserOS {
		if !isBrowserOSColumn(key) {
			return fmt.Errorf("course %d: unknown browser_os counter %q", c.ID, key)
		}
		if value < 0 {
			return fmt.Errorf("course %d: browser_os counter %q must be >= 0", c.ID, key)
		}
	}
	for _, l := range c.Learners {
		if l.ID <= 0 || strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("course %d: learner id and name are required", c.ID)
		}
	}
	return nil
}

func isBrowserOSColumn(name string) bool {
	for _, col := range browserOSColumns {
		if col == name {
			return true
		}
	}
	return false
}

// ImportCourse replaces every stored row of a course with the given data.
func (s *Store) ImportCourse(ctx context.Context, c Course) (err error) {
	if err := c.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, table := range []string{"activities", "browser_os", "learners"} {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE course_id = ?`, table), c.ID); err != nil {
			return err
		}
	}

	for _, a := range c.Activities {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO activities (course_id, name, modname, section_name, visible, hits)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, a.Name, a.Type, a.Section, !a.Hidden, a.Hits,
		); err != nil {
			return err
		}
	}

	if c.BrowserOS != nil {
		cols := []string{"course_id"}
		placeholders := []string{"?"}
		args := []any{c.ID}
		for _, col := range browserOSColumns {
			value, ok := c.BrowserOS[col]
			if !ok {
				continue
			}
			cols = append(cols, col)
			placeholders = append(placeholders, "?")
			args = append(args, value)
		}
		query := fmt.Sprintf(`INSERT INTO browser_os (%s) VALUES (%s)`, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	for _, l := range c.Learners {
		role := l.Role
		if role == "" {
			role = model.RoleStudent
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO learners (course_id, user_id, name, role, lang, country, hits)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, l.ID, l.Name, role, l.Lang, l.Country, l.Hits,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
