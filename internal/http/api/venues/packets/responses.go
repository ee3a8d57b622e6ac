package packets

// RESPONSES FOR /api/venues/* and /api/catalog

type VenueSummaryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ImageURL string `json:"image_url"`
}

// ScheduleEntryResponse flattens a schedule item to RFC3339 bounds plus the display line.
type ScheduleEntryResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Line  string `json:"line"`
}

type VenueResponse struct {
	ID            int64                   `json:"id"`
	Name          string                  `json:"name"`
	Address       string                  `json:"address"`
	City          string                  `json:"city"`
	State         string                  `json:"state"`
	Zip           string                  `json:"zip"`
	Location      string                  `json:"location"`
	Phone         string                  `json:"phone"`
	TollFreePhone string                  `json:"tollfreephone"`
	PCode         int                     `json:"pcode"`
	Latitude      float64                 `json:"latitude"`
	Longitude     float64                 `json:"longitude"`
	Description   string                  `json:"description"`
	ImageURL      string                  `json:"image_url"`
	TicketLink    string                  `json:"ticket_link"`
	Schedule      []ScheduleEntryResponse `json:"schedule"`
}

type ShareResponse struct {
	Text string `json:"text"`
}

type CatalogStatusResponse struct {
	Count    int    `json:"count"`
	LoadedAt string `json:"loaded_at"`
	ETag     string `json:"etag"`
}
