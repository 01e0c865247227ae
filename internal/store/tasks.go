package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, project_id, title, completed, priority, due_date, created_at`

// AddTask appends a task that belongs to no project. A blank title or an
// invalid priority is ignored: the result is nil and nothing changes.
func (s *Store) AddTask(title string, priority Priority, due time.Time) (*Task, error) {
	return s.addTask(s.db, "", title, priority, due)
}

// AddProjectTask appends a task to an existing project. Besides the AddTask
// rules, it is ignored when projectID is empty or names no project.
func (s *Store) AddProjectTask(projectID, title string, priority Priority, due time.Time) (*Task, error) {
	if projectID == "" {
		s.logger.Debug("add task rejected", "reason", "no project selected")
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin add task: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.getProject(tx, projectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("add task rejected", "reason", "unknown project", "project", projectID)
			return nil, nil
		}
		return nil, err
	}
	t, err := s.addTask(tx, projectID, title, priority, due)
	if err != nil || t == nil {
		return t, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add task: %w", err)
	}
	return t, nil
}

func (s *Store) addTask(q querier, projectID, title string, priority Priority, due time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		s.logger.Debug("add task rejected", "reason", "empty title")
		return nil, nil
	}
	if !priority.Valid() {
		s.logger.Debug("add task rejected", "reason", "invalid priority", "priority", int(priority))
		return nil, nil
	}

	t := &Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Priority:  priority,
		DueDate:   due.In(s.loc),
		CreatedAt: s.Now(),
	}
	_, err := q.Exec(
		`INSERT INTO tasks (id, project_id, title, priority, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, nullString(projectID), t.Title, t.Priority.String(), formatTime(t.DueDate), formatTime(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *Store) getTask(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := s.scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks() ([]Task, error) {
	return s.listTasks(s.db)
}

func (s *Store) listTasks(q querier) ([]Task, error) {
	rows, err := q.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ToggleTask flips the completed flag. Unknown ids are ignored.
func (s *Store) ToggleTask(id string) error {
	res, err := s.db.Exec(`UPDATE tasks SET completed = 1 - completed WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("toggle task ignored", "id", id)
	}
	return nil
}

// DeleteTask removes the task. Unknown ids are ignored.
func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("delete task ignored", "id", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(r rowScanner) (Task, error) {
	var t Task
	var projectID sql.NullString
	var completed int
	var priority, dueDate, createdAt string
	if err := r.Scan(&t.ID, &projectID, &t.Title, &completed, &priority, &dueDate, &createdAt); err != nil {
		return Task{}, err
	}
	t.ProjectID = projectID.String
	t.Completed = completed == 1
	t.Priority, _ = ParsePriority(priority)
	t.DueDate = parseTime(dueDate, s.loc)
	t.CreatedAt = parseTime(createdAt, s.loc)
	return t, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
