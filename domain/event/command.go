package event

import "time"

type CaptureEventCommand struct {
	APIKey     string         `json:"api_key,omitempty"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties"`
	Elements   []Element      `json:"elements"`
	Timestamp  *time.Time     `json:"timestamp,omitempty"`
}

// ToEvent builds the event for teamID. A missing timestamp defaults to now.
func (cmd *CaptureEventCommand) ToEvent(teamID int64, ip string, now time.Time) *Event {
	ts := now
	if cmd.Timestamp != nil && !cmd.Timestamp.IsZero() {
		ts = *cmd.Timestamp
	}
	return &Event{
		TeamID:     teamID,
		Event:      cmd.Event,
		DistinctID: cmd.DistinctID,
		Properties: cmd.Properties,
		Elements:   cmd.Elements,
		Timestamp:  ts.UTC(),
		IP:         ip,
	}
}

type CaptureBatchCommand struct {
	APIKey string                `json:"api_key"`
	Batch  []CaptureEventCommand `json:"batch"`
}
