package dto

type SourceStatusResponse struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

type StatusResponseData struct {
	Status    string                 `json:"status"`
	TotalJobs int                    `json:"total_jobs"`
	LastRun   string                 `json:"last_run,omitempty"`
	Stale     bool                   `json:"stale"`
	Scheduler string                 `json:"scheduler,omitempty"`
	Interval  string                 `json:"interval,omitempty"`
	Sources   []SourceStatusResponse `json:"sources,omitempty"`
	Message   string                 `json:"message,omitempty"`
}
