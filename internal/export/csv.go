package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/taskdeck/internal/store"
)

func ToCSV(snap store.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Project", "Priority", "Due", "Completed"}); err != nil {
		return err
	}

	for _, t := range snap.Tasks {
		row := []string{
			t.ID,
			t.Title,
			projectName(snap, t.ProjectID),
			t.Priority.String(),
			store.DateKey(t.DueDate),
			strconv.FormatBool(t.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
