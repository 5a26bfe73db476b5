package http

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// GET /api/rooms
type RoomSummary struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"created_at"` // RFC 3339, JST
}

// GET /api/rooms/{id}
type RoomDetail struct {
	ID           string              `json:"id"`
	Participants []ParticipantDetail `json:"participants"`
	CreatedAt    string              `json:"created_at"`
}

type ParticipantDetail struct {
	ClientID    string `json:"client_id"`
	ConnectedAt string `json:"connected_at"`
}

type ParticipantsResponse struct {
	Items []ParticipantDetail `json:"items"`
}

type EventItem struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	ClientID string `json:"client_id"`
	Content  string `json:"content,omitempty"`
	At       string `json:"at"`
}

type EventsResponse struct {
	Items      []EventItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// GET /debug/room
type DebugRoom struct {
	ID                  string              `json:"id"`
	CreatedAt           string              `json:"created_at"`
	ParticipantCapacity int                 `json:"participant_capacity"`
	MessageCapacity     int                 `json:"message_capacity"`
	Participants        []ParticipantDetail `json:"participants"`
	Messages            []DebugMessage      `json:"messages"`
}

type DebugMessage struct {
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
	SentAt   string `json:"sent_at"`
}
