package ws

import (
	"encoding/json"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

// Типы событий WS (kebab-case на проводе)
const (
	TypeRoomConnected     = "room-connected"     // снапшот участников, только новому клиенту
	TypeParticipantJoined = "participant-joined" // кто-то вошёл
	TypeParticipantLeft   = "participant-left"   // кто-то вышел
	TypeChat              = "chat"               // чат-сообщение
	TypeError             = "error"              // ошибка только отправителю
)

type ParticipantInfo struct {
	ClientID    string `json:"client_id"`
	ConnectedAt int64  `json:"connected_at"` // unix ms
}

type RoomConnectedMessage struct {
	Type         string            `json:"type"`
	Participants []ParticipantInfo `json:"participants"`
}

type ParticipantJoinedMessage struct {
	Type        string `json:"type"`
	ClientID    string `json:"client_id"`
	ConnectedAt int64  `json:"connected_at"`
}

type ParticipantLeftMessage struct {
	Type           string `json:"type"`
	ClientID       string `json:"client_id"`
	DisconnectedAt int64  `json:"disconnected_at"`
}

type ChatMessage struct {
	Type      string `json:"type"`
	ClientID  string `json:"client_id,omitempty"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewRoomConnected(roster []domain.Participant) RoomConnectedMessage {
	items := make([]ParticipantInfo, 0, len(roster))
	for _, p := range roster {
		items = append(items, ParticipantInfo{ClientID: p.ID.String(), ConnectedAt: int64(p.JoinedAt)})
	}
	return RoomConnectedMessage{Type: TypeRoomConnected, Participants: items}
}

func NewParticipantJoined(p domain.Participant) ParticipantJoinedMessage {
	return ParticipantJoinedMessage{Type: TypeParticipantJoined, ClientID: p.ID.String(), ConnectedAt: int64(p.JoinedAt)}
}

func NewParticipantLeft(id domain.ParticipantID, at domain.Timestamp) ParticipantLeftMessage {
	return ParticipantLeftMessage{Type: TypeParticipantLeft, ClientID: id.String(), DisconnectedAt: int64(at)}
}

func NewChat(m domain.Message) ChatMessage {
	return ChatMessage{Type: TypeChat, ClientID: m.From.String(), Content: m.Text.String(), Timestamp: int64(m.SentAt)}
}

// ParseInbound: JSON {"type":"chat","content":...}. Любой кадр, который
// не разбирается в такой объект (текст, число, массив, битый JSON),
// целиком считается содержимым. ok=false для JSON другого типа.
func ParseInbound(data []byte) (content string, ok bool) {
	var in ChatMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return string(data), true
	}
	if in.Type != "" && in.Type != TypeChat {
		return "", false
	}
	return in.Content, true
}
