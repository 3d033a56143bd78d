package db

import "fmt"

// PipelineEvent is one recorded step of a generation run.
type PipelineEvent struct {
	ID        int64
	RunID     string
	Event     string
	Stage     string
	Detail    string
	Timestamp string
}

// LogPipelineEvent records an event for a run.
func (d *DB) LogPipelineEvent(runID, event, stage, detail string) error {
	_, err := d.conn.Exec(
		"INSERT INTO pipeline_events (run_id, event, stage, detail) VALUES (?, ?, ?, ?)",
		runID, event, stage, detail,
	)
	if err != nil {
		return fmt.Errorf("log pipeline event: %w", err)
	}
	return nil
}

// ListEvents returns all events for a run in insertion order.
func (d *DB) ListEvents(runID string) ([]PipelineEvent, error) {
	rows, err := d.conn.Query(
		"SELECT id, run_id, event, stage, detail, timestamp FROM pipeline_events WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pipeline events: %w", err)
	}
	defer rows.Close()

	var events []PipelineEvent
	for rows.Next() {
		var e PipelineEvent
		var stage, detail *string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Event, &stage, &detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan pipeline event: %w", err)
		}
		if stage != nil {
			e.Stage = *stage
		}
		if detail != nil {
			e.Detail = *detail
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
