package store

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a task's importance. The zero value is not a valid priority.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Valid reports whether p is one of the three known levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority accepts "low", "medium" or "high", case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority %q (want low, medium or high)", s)
}

type Project struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

type Task struct {
	ID        string
	ProjectID string // empty when the task belongs to no project
	Title     string
	Completed bool
	Priority  Priority
	DueDate   time.Time
	CreatedAt time.Time
}

// Snapshot is a consistent read of everything the store holds.
type Snapshot struct {
	Projects        []Project
	Tasks           []Task
	ActiveProjectID string
}

// Project returns the project with the given id from the snapshot.
func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ActiveProject returns the selected project, if any.
func (s Snapshot) ActiveProject() (Project, bool) {
	if s.ActiveProjectID == "" {
		return Project{}, false
	}
	return s.Project(s.ActiveProjectID)
}

// DayGroup is a set of tasks due on the same calendar day.
type DayGroup struct {
	Date  string // yyyy-mm-dd
	Tasks []Task
}
