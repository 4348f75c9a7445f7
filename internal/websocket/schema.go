package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventActivity Event = "activity"
)

// ActivityResponse wraps one student submission pushed to an educator.
type ActivityResponse struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

// ErrorResponse reports a stream-level failure before closing.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
