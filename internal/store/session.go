package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const keyActiveProject = "active_project"

// getSession returns "" when the key is unset.
func getSession(q querier, key string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session %q: %w", key, err)
	}
	return value, nil
}

func setSession(q querier, key, value string) error {
	_, err := q.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set session %q: %w", key, err)
	}
	return nil
}
