package domain

import "time"

// Analysis job sources.
const (
	AnalysisSourceFunction = "function"
	AnalysisSourceConfirm  = "confirm"
)

// AnalysisJob is published on the bus when a prompt response or a confirmed prompt
// should be analysed. Analysis itself happens outside this application.
type AnalysisJob struct {
	JobID       string    `json:"job_id"`
	ResponseID  string    `json:"response_id,omitempty"`
	PromptID    string    `json:"prompt_id,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Source      string    `json:"source"`
	RequestedAt time.Time `json:"requested_at"`
}
