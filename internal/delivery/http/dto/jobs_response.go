package dto

// JobResponse mirrors one posting as served to clients. Field names
// follow the snapshot file layout so both surfaces stay interchangeable.
type JobResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	County      string `json:"county"`
	Type        string `json:"type"`
	Sector      string `json:"sector"`
	Salary      string `json:"salary"`
	Deadline    string `json:"deadline"`
	Link        string `json:"link"`
	ApplyEmail  string `json:"apply_email"`
	Description string `json:"description"`
	Source      string `json:"source"`
	ScrapedAt   string `json:"scraped_at"`
}

type JobsListResponseData struct {
	Total     int           `json:"total"`
	Returned  int           `json:"returned"`
	ScrapedAt string        `json:"scraped_at,omitempty"`
	Jobs      []JobResponse `json:"jobs"`
	Message   string        `json:"message,omitempty"`
}
