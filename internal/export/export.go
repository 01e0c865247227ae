// Package export writes a snapshot of the task store to disk. Nothing is
// ever read back.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/taskdeck/internal/store"
)

// Format is an export file format.
type Format int

const (
	CSV Format = iota
	JSON
	YAML
	ICS
)

// Formats lists the formats in picker order.
var Formats = []Format{CSV, JSON, YAML, ICS}

func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case JSON:
		return "JSON"
	case YAML:
		return "YAML"
	case ICS:
		return "iCalendar"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case ICS:
		return "ics"
	}
	return "txt"
}

// Path returns dir/taskdeck-export-<date>.<ext>.
func Path(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("taskdeck-export-%s.%s", now.Format(store.DateLayout), f.Ext()))
}

// Write exports snap to path in the given format. now stamps the export.
func Write(f Format, snap store.Snapshot, path string, now time.Time) error {
	switch f {
	case CSV:
		return ToCSV(snap, path)
	case JSON:
		return ToJSON(snap, path, now)
	case YAML:
		return ToYAML(snap, path, now)
	case ICS:
		return ToICS(snap, path, now)
	}
	return fmt.Errorf("unknown export format %d", int(f))
}

type document struct {
	ExportedAt string       `json:"exported_at" yaml:"exported_at"`
	Count      int          `json:"count" yaml:"count"`
	Projects   []projectDoc `json:"projects" yaml:"projects"`
	Tasks      []taskDoc    `json:"tasks" yaml:"tasks"`
}

type projectDoc struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type taskDoc struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Project   string `json:"project,omitempty" yaml:"project,omitempty"`
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Priority  string `json:"priority" yaml:"priority"`
	Due       string `json:"due" yaml:"due"`
	Completed bool   `json:"completed" yaml:"completed"`
}

func buildDocument(snap store.Snapshot, now time.Time) document {
	doc := document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(snap.Tasks),
	}
	for _, p := range snap.Projects {
		doc.Projects = append(doc.Projects, projectDoc{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	for _, t := range snap.Tasks {
		doc.Tasks = append(doc.Tasks, taskDoc{
			ID:        t.ID,
			Title:     t.Title,
			Project:   projectName(snap, t.ProjectID),
			ProjectID: t.ProjectID,
			Priority:  t.Priority.String(),
			Due:       store.DateKey(t.DueDate),
			Completed: t.Completed,
		})
	}
	return doc
}

func projectName(snap store.Snapshot, id string) string {
	if id == "" {
		return ""
	}
	if p, ok := snap.Project(id); ok {
		return p.Name
	}
	return "Unknown"
}
