package dto

import "encoding/json"

// Stream event types sent by POST /api/analyze/stream.
const (
	EventStarted          = "started"
	EventProgress         = "progress"
	EventStreamingContent = "streaming_content"
	EventFinalResult      = "final_result"
	EventKeepalive        = "keepalive"
)

// ProgressData is the payload of a progress event.
type ProgressData struct {
	TaskID       string  `json:"task_id,omitempty"`
	Percentage   float64 `json:"percentage"`
	Status       string  `json:"status"`
	CurrentStock string  `json:"current_stock,omitempty"`
	Message      string  `json:"message,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
}

// StreamEvent is one decoded "data: " frame. Data is decoded lazily because
// its shape depends on Type.
type StreamEvent struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Content string          `json:"content,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Progress decodes the payload of a progress event.
func (e StreamEvent) Progress() (*ProgressData, error) {
	var p ProgressData
	if err := json.Unmarshal(e.Data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Result decodes the report carried by a final_result event.
func (e StreamEvent) Result() (*AnalysisResult, error) {
	var r AnalysisResult
	if err := json.Unmarshal(e.Data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
