package focustimer

import (
	"encoding/json"
	"fmt"
	"time"

	"aetheris/internal/core/model"
)

// snapshotRecord is the stored blob. Every field is optional so records
// written by older versions still decode.
type snapshotRecord struct {
	Mode              *string `json:"mode,omitempty"`
	SessionsCompleted *int    `json:"sessionsCompleted,omitempty"`
	TimeRemaining     *int    `json:"timeRemaining,omitempty"`
	IsRunning         *bool   `json:"isRunning,omitempty"`
	EndTime           *int64  `json:"endTime"`
}

// EncodeSnapshot serializes a snapshot to its stored blob.
func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	mode := string(snapshot.Mode)
	record := snapshotRecord{
		Mode:              &mode,
		SessionsCompleted: &snapshot.SessionsCompleted,
		TimeRemaining:     &snapshot.TimeRemaining,
		IsRunning:         &snapshot.IsRunning,
	}
	if snapshot.IsRunning {
		endTime := snapshot.Deadline.UnixMilli()
		record.EndTime = &endTime
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored blob. Empty data yields the defaults.
// Missing or out-of-range fields fall back to their defaults; malformed
// data yields the defaults together with an error.
func DecodeSnapshot(data []byte, config model.TimerConfig) (Snapshot, error) {
	snapshot := DefaultSnapshot(config)
	if len(data) == 0 {
		return snapshot, nil
	}

	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return snapshot, fmt.Errorf("decode snapshot: %w", err)
	}

	if record.Mode != nil && Mode(*record.Mode) == ModeBreak {
		snapshot.Mode = ModeBreak
	}
	if record.SessionsCompleted != nil && *record.SessionsCompleted > 0 {
		snapshot.SessionsCompleted = *record.SessionsCompleted
	}

	snapshot.TimeRemaining = durationOf(snapshot.Mode, config)
	if record.TimeRemaining != nil && *record.TimeRemaining >= 0 {
		snapshot.TimeRemaining = *record.TimeRemaining
	}

	// A running record without a deadline cannot be resumed and is read
	// as paused.
	if record.IsRunning != nil && *record.IsRunning && record.EndTime != nil {
		snapshot.IsRunning = true
		snapshot.Deadline = time.UnixMilli(*record.EndTime).UTC()
	}
	return snapshot, nil
}
