package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDueDateOrder(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("second", PriorityLow, day(2024, 6, 2))
	s.AddTask("first", PriorityLow, day(2024, 6, 1))

	tasks, _ := s.ListTasks()
	groups := GroupByDueDate(tasks)

	require.Len(t, groups, 2)
	assert.Equal(t, "2024-06-01", groups[0].Date)
	assert.Equal(t, "2024-06-02", groups[1].Date)
	assert.Equal(t, []string{"first"}, titles(groups[0].Tasks))
	assert.Equal(t, []string{"second"}, titles(groups[1].Tasks))
}

func TestGroupByDueDateIgnoresTimeOfDay(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "late", DueDate: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "early", DueDate: time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)},
	}
	groups := GroupByDueDate(tasks)
	require.Len(t, groups, 1)
	// Insertion order inside a group, not due time.
	assert.Equal(t, []string{"late", "early"}, titles(groups[0].Tasks))
}

func TestGroupByDueDatePartition(t *testing.T) {
	var tasks []Task
	dates := []time.Time{
		day(2024, 12, 31), day(2024, 1, 5), day(2025, 1, 1),
		day(2024, 1, 5), day(2024, 12, 31), day(2023, 7, 4),
	}
	for i, d := range dates {
		tasks = append(tasks, Task{ID: string(rune('a' + i)), Title: string(rune('a' + i)), DueDate: d})
	}

	groups := GroupByDueDate(tasks)

	seen := make(map[string]int)
	for i, g := range groups {
		if i > 0 {
			assert.Less(t, groups[i-1].Date, g.Date)
		}
		for _, task := range g.Tasks {
			assert.Equal(t, g.Date, DateKey(task.DueDate))
			seen[task.ID]++
		}
	}
	assert.Len(t, seen, len(tasks))
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %s", id)
	}
	assert.Equal(t, []string{"2023-07-04", "2024-01-05", "2024-12-31", "2025-01-01"}, groupDates(groups))
}

func TestGroupByDueDateEmpty(t *testing.T) {
	assert.Empty(t, GroupByDueDate(nil))
}

func groupDates(groups []DayGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Date)
	}
	return out
}

func TestFilterByProject(t *testing.T) {
	tasks := []Task{
		{Title: "a", ProjectID: "p1"},
		{Title: "b", ProjectID: "p2"},
		{Title: "c", ProjectID: "p1"},
		{Title: "d"},
	}
	assert.Equal(t, []string{"a", "c"}, titles(FilterByProject(tasks, "p1")))
	assert.Equal(t, []string{"b"}, titles(FilterByProject(tasks, "p2")))
	assert.Empty(t, FilterByProject(tasks, "p3"))
}

func TestCountIncomplete(t *testing.T) {
	tasks := []Task{
		{Title: "a"},
		{Title: "b", Completed: true},
		{Title: "c"},
	}
	assert.Equal(t, 2, CountIncomplete(tasks))
	assert.Equal(t, 0, CountIncomplete(nil))
}

func TestDueOnAndDueAfter(t *testing.T) {
	tasks := []Task{
		{Title: "yesterday", DueDate: day(2024, 5, 30)},
		{Title: "today", DueDate: day(2024, 5, 31)},
		{Title: "tomorrow", DueDate: day(2024, 6, 1)},
		{Title: "later", DueDate: day(2024, 7, 1)},
	}
	assert.Equal(t, []string{"today"}, titles(DueOn(tasks, "2024-05-31")))
	assert.Equal(t, []string{"tomorrow", "later"}, titles(DueAfter(tasks, "2024-05-31")))
	assert.Equal(t, []string{"yesterday", "today"}, titles(DueOnOrBefore(tasks, "2024-05-31")))
}

func TestDueOnOrBeforeAndDueAfterCoverEveryTask(t *testing.T) {
	tasks := []Task{
		{ID: "a", DueDate: day(2023, 1, 1)},
		{ID: "b", DueDate: day(2024, 5, 31)},
		{ID: "c", DueDate: day(2024, 6, 1)},
		{ID: "d", DueDate: day(2025, 12, 31)},
	}
	for _, key := range []string{"2022-12-31", "2024-05-31", "2024-06-01", "2026-01-01"} {
		past := DueOnOrBefore(tasks, key)
		future := DueAfter(tasks, key)
		assert.Len(t, append(past, future...), len(tasks), key)
	}
}

func TestPriorityCounts(t *testing.T) {
	tasks := []Task{
		{Priority: PriorityHigh},
		{Priority: PriorityHigh},
		{Priority: PriorityLow},
		{Priority: PriorityLow, Completed: true},
	}
	counts := PriorityCounts(tasks)
	assert.Equal(t, 2, counts[PriorityHigh])
	assert.Equal(t, 1, counts[PriorityLow])
	assert.Equal(t, 0, counts[PriorityMedium])
}
