// Package store handles SQLite persistence of raw usage counts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/lareport/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// browserOSColumns lists the flattened group_key counters of the browser_os table.
var browserOSColumns = []string{
	"platform_desktop", "platform_mobile", "platform_api", "platform_other",
	"os_windows", "os_mac", "os_linux", "os_other",
	"browser_chrome", "browser_edge", "browser_firefox", "browser_ie", "browser_opera", "browser_safari", "browser_other",
	"mobile_android", "mobile_ios", "mobile_other",
}

// Store wraps SQLite access for usage data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	counters := make([]string, len(browserOSColumns))
	for i, col := range browserOSColumns {
		counters[i] = col + " INTEGER NOT NULL DEFAULT 0"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			course_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			modname TEXT NOT NULL,
			section_name TEXT NOT NULL DEFAULT '',
			visible INTEGER NOT NULL DEFAULT 1,
			hits INTEGER NOT NULL DEFAULT 0
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS browser_os (
			course_id INTEGER PRIMARY KEY,
			%s
		);`, strings.Join(counters, ",\n\t\t\t")),
		`CREATE TABLE IF NOT EXISTS learners (
			course_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			lang TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			hits INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (course_id, user_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_course ON activities(course_id, modname);`,
		`CREATE INDEX IF NOT EXISTS idx_learners_course_role ON learners(course_id, role);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ListActivities returns one record per activity of a course, optionally limited to one module type.
func (s *Store) ListActivities(ctx context.Context, courseID int64, mod string) ([]model.UsageRecord, error) {
	clauses := []string{"course_id = ?"}
	args := []any{courseID}
	if mod != "" {
		clauses = append(clauses, "modname = ?")
		args = append(args, mod)
	}
	query := fmt.Sprintf(`SELECT id, name, modname, section_name, visible, hits
		FROM activities
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.UsageRecord
	for rows.Next() {
		var (
			id      int64
			name    string
			modname string
			section string
			visible bool
			hits    int
		)
		if err := rows.Scan(&id, &name, &modname, &section, &visible, &hits); err != nil {
			return nil, err
		}
		rec, err := model.NewUsageRecord(modname, name, hits, map[string]string{
			model.MetaID:      strconv.FormatInt(id, 10),
			model.MetaSection: section,
			model.MetaVisible: strconv.FormatBool(visible),
		})
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BrowserOS returns the browser/OS tallies of a course as grouped triples.
// It returns model.ErrNoRecord when the course has no stored row.
func (s *Store) BrowserOS(ctx context.Context, courseID int64) ([]model.Triple, error) {
	query := fmt.Sprintf(`SELECT %s FROM browser_os WHERE course_id = ?`, strings.Join(browserOSColumns, ", "))
	values := make([]int, len(browserOSColumns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	err := s.db.QueryRowContext(ctx, query, courseID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("browser_os for course %d: %w", courseID, model.ErrNoRecord)
	}
	if err != nil {
		return nil, err
	}
	triples := make([]model.Triple, 0, len(values))
	for i, col := range browserOSColumns {
		group, key, ok := splitColumn(col)
		if !ok {
			continue
		}
		triples = append(triples, model.Triple{Group: group, Key: key, Value: values[i]})
	}
	return triples, nil
}

// splitColumn splits a flattened group_key column name at its first underscore.
func splitColumn(col string) (group, key string, ok bool) {
	idx := strings.IndexByte(col, '_')
	if idx < 0 {
		return "", "", false
	}
	return col[:idx], col[idx+1:], true
}

// ListLocalization counts learners of a role per language or country.
// Records are ordered by count descending, then code.
func (s *Store) ListLocalization(ctx context.Context, courseID int64, field, role string) ([]model.UsageRecord, error) {
	switch field {
	case "lang", "country":
	default:
		return nil, fmt.Errorf("unsupported localization field %q", field)
	}
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) AS users
		FROM learners
		WHERE course_id = ? AND role = ?
		GROUP BY %[1]s
		ORDER BY users DESC, %[1]s ASC`, field)
	rows, err := s.db.QueryContext(ctx, query, courseID, role)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.UsageRecord
	for rows.Next() {
		var code string
		var users int
		if err := rows.Scan(&code, &users); err != nil {
			return nil, err
		}
		result = append(result, model.UsageRecord{Category: code, Label: code, Count: users})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListLearnerHits returns one record per learner of a role with their hit count.
func (s *Store) ListLearnerHits(ctx context.Context, courseID int64, role string) ([]model.UsageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, name, hits
		FROM learners
		WHERE course_id = ? AND role = ?
		ORDER BY user_id ASC`, courseID, role)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.UsageRecord
	for rows.Next() {
		var userID int64
		var name string
		var hits int
		if err := rows.Scan(&userID, &name, &hits); err != nil {
			return nil, err
		}
		id := strconv.FormatInt(userID, 10)
		result = append(result, model.UsageRecord{
			Category: id,
			Label:    name,
			Count:    hits,
			Metadata: map[string]string{model.MetaID: id},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountLearners returns the number of learners with a role in a course.
func (s *Store) CountLearners(ctx context.Context, courseID int64, role string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learners WHERE course_id = ? AND role = ?`, courseID, role).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListCourses returns every course id that has any stored data.
func (s *Store) ListCourses(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id FROM activities
		UNION SELECT course_id FROM browser_os
		UNION SELECT course_id FROM learners`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
