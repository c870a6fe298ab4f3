package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"socialstream/backend/store"
)

// Event types carried over the live connection, client to server.
const (
	EventComeOnline     = "comeOnline"
	EventGoOffline      = "goOffline"
	EventLike           = "like"
	EventComment        = "comment"
	EventPrivateMessage = "privateMessage" // also outbound
	EventRequestHistory = "requestHistory"
)

// Event types pushed server to client.
const (
	EventOnlineUsers        = "onlineUsers"
	EventFeedPostCreated    = "feedPostCreated"
	EventFeedCommentCreated = "feedCommentCreated"
	EventLikeCountChanged   = "likeCountChanged"
	EventHistory            = "history"
	EventProfileUpdated     = "profileUpdated"
)

// Envelope is the wire shape of every event in both directions:
// {"type": "...", "data": {...}}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ValidationError reports a required field missing from an inbound
// event. Such events are dropped, never answered.
type ValidationError struct {
	Event string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s event: missing %s", e.Event, e.Field)
}

type ComeOnlinePayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (p *ComeOnlinePayload) Validate() error {
	if p.UserID == "" {
		return &ValidationError{EventComeOnline, "userId"}
	}
	if p.DisplayName == "" {
		return &ValidationError{EventComeOnline, "displayName"}
	}
	return nil
}

type GoOfflinePayload struct {
	UserID string `json:"userId"`
}

type LikePayload struct {
	PostID string `json:"postId"`
}

func (p *LikePayload) Validate() error {
	if p.PostID == "" {
		return &ValidationError{EventLike, "postId"}
	}
	return nil
}

type CommentPayload struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

func (p *CommentPayload) Validate() error {
	if p.PostID == "" {
		return &ValidationError{EventComment, "postId"}
	}
	if p.Content == "" {
		return &ValidationError{EventComment, "content"}
	}
	return nil
}

type PrivateMessagePayload struct {
	RecipientID string `json:"recipientId"`
	Body        string `json:"body"`
}

func (p *PrivateMessagePayload) Validate() error {
	if p.RecipientID == "" {
		return &ValidationError{EventPrivateMessage, "recipientId"}
	}
	if p.Body == "" {
		return &ValidationError{EventPrivateMessage, "body"}
	}
	return nil
}

type RequestHistoryPayload struct {
	WithUserID string `json:"withUserId"`
}

func (p *RequestHistoryPayload) Validate() error {
	if p.WithUserID == "" {
		return &ValidationError{EventRequestHistory, "withUserId"}
	}
	return nil
}

// OnlineUser is one entry of the onlineUsers broadcast. Connection
// identity deliberately has no place here.
type OnlineUser struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	ImageRef    *string `json:"imageRef,omitempty"`
}

type PostEvent struct {
	Post store.Post `json:"post"`
}

type CommentEvent struct {
	Comment store.Comment `json:"comment"`
}

type LikeCountEvent struct {
	PostID string `json:"postId"`
	Count  int    `json:"count"`
}

type MessageEvent struct {
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
}

type HistoryEvent struct {
	WithUserID string                 `json:"withUserId"`
	Messages   []store.PrivateMessage `json:"messages"`
}

type ProfileEvent struct {
	UserID   string `json:"userId"`
	ImageRef string `json:"imageRef"`
}

func encode(kind string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: kind, Data: raw})
}
