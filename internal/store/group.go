package store

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

// DateKey returns the calendar day of t, in t's own location, as yyyy-mm-dd.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// GroupByDueDate buckets tasks by due day. Groups come out in ascending key
// order; inside a group tasks keep their input order.
func GroupByDueDate(tasks []Task) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup
	for _, t := range tasks {
		key := DateKey(t.DueDate)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: key})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	slices.SortStableFunc(groups, func(a, b DayGroup) int {
		return strings.Compare(a.Date, b.Date)
	})
	return groups
}

// FilterByProject keeps the tasks of one project, in order.
func FilterByProject(tasks []Task, projectID string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// CountIncomplete counts tasks that are not completed.
func CountIncomplete(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// DueOn keeps the tasks due on the given day.
func DueOn(tasks []Task, dateKey string) []Task {
	var out []Task
	for _, t := range tasks {
		if DateKey(t.DueDate) == dateKey {
			out = append(out, t)
		}
	}
	return out
}

// DueOnOrBefore keeps the tasks due on the given day or earlier.
func DueOnOrBefore(tasks []Task, dateKey string) []Task {
	var out []Task
	for _, t := range tasks {
		if DateKey(t.DueDate) <= dateKey {
			out = append(out, t)
		}
	}
	return out
}

// DueAfter keeps the tasks due strictly after the given day.
func DueAfter(tasks []Task, dateKey string) []Task {
	var out []Task
	for _, t := range tasks {
		if DateKey(t.DueDate) > dateKey {
			out = append(out, t)
		}
	}
	return out
}

// PriorityCounts counts incomplete tasks per priority.
func PriorityCounts(tasks []Task) map[Priority]int {
	counts := make(map[Priority]int, len(Priorities))
	for _, t := range tasks {
		if !t.Completed {
			counts[t.Priority]++
		}
	}
	return counts
}
