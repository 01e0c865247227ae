package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AddProject creates a project and makes it the active one. A blank name is
// ignored: the result is nil and nothing changes.
func (s *Store) AddProject(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Debug("add project rejected", "reason", "empty name")
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin add project: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	p := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     Palette[count%len(Palette)],
		CreatedAt: s.Now(),
	}
	_, err = tx.Exec(
		`INSERT INTO projects (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Color, formatTime(p.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	if err := setSession(tx, keyActiveProject, p.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add project: %w", err)
	}
	return p, nil
}

func (s *Store) getProject(q querier, id string) (*Project, error) {
	p := &Project{}
	var createdAt string
	err := q.QueryRow(
		`SELECT id, name, color, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Color, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	p.CreatedAt = parseTime(createdAt, s.loc)
	return p, nil
}

// ListProjects returns projects in creation order.
func (s *Store) ListProjects() ([]Project, error) {
	return s.listProjects(s.db)
}

func (s *Store) listProjects(q querier) ([]Project, error) {
	rows, err := q.Query(`SELECT id, name, color, created_at FROM projects ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt, s.loc)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes the project together with every task that belongs
// to it, and clears the active selection if it pointed at the project.
// Deleting an unknown id does nothing.
func (s *Store) DeleteProject(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM session WHERE key = ? AND value = ?`, keyActiveProject, id); err != nil {
		return fmt.Errorf("clear active project: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("delete project ignored", "id", id)
	}
	return nil
}

// SelectProject marks the project as active. Unknown ids are ignored.
func (s *Store) SelectProject(id string) error {
	res, err := s.db.Exec(
		`INSERT INTO session (key, value)
		 SELECT ?, id FROM projects WHERE id = ?
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		keyActiveProject, id,
	)
	if err != nil {
		return fmt.Errorf("select project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("select project ignored", "id", id)
	}
	return nil
}

// ActiveProject returns the selected project, or nil when none is selected.
func (s *Store) ActiveProject() (*Project, error) {
	id, err := getSession(s.db, keyActiveProject)
	if err != nil || id == "" {
		return nil, err
	}
	p, err := s.getProject(s.db, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}
