package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/taskdeck/internal/store"
)

func ToJSON(snap store.Snapshot, path string, now time.Time) error {
	data, err := json.MarshalIndent(buildDocument(snap, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
