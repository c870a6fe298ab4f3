package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"socialstream/backend/store"
)

type sessionState int

const (
	stateAnonymous sessionState = iota
	stateIdentified
	stateClosed
)

// Session binds one live connection to a user identity and dispatches
// its inbound events. It starts anonymous, becomes identified after a
// valid comeOnline, and is closed for good on disconnect. A failing
// event never terminates the connection: it is logged and the session
// state stays as it was.
type Session struct {
	client    *Client
	hub       *Hub
	registry  *Registry
	messenger *Messenger
	store     *store.Store
	log       *zap.SugaredLogger

	state  sessionState
	userID string
}

func NewSession(conn *websocket.Conn, hub *Hub, reg *Registry, msgr *Messenger, st *store.Store, log *zap.SugaredLogger) *Session {
	return &Session{
		client: &Client{
			ConnID: uuid.New().String(),
			Conn:   conn,
			Send:   make(chan []byte, 256),
		},
		hub:       hub,
		registry:  reg,
		messenger: msgr,
		store:     st,
		log:       log,
		state:     stateAnonymous,
	}
}

// Run registers the session with the hub and pumps the connection
// until it drops. Blocks until disconnect.
func (s *Session) Run() {
	s.hub.Register(s.client)
	go s.client.WritePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer s.Disconnect()
	for {
		_, raw, err := s.client.Conn.ReadMessage()
		if err != nil {
			return
		}
		s.HandleEvent(context.Background(), raw)
	}
}

// HandleEvent processes a single inbound event. Malformed events are
// dropped with a log line; persistence failures abort the transition
// without touching registry or hub state.
func (s *Session) HandleEvent(ctx context.Context, raw []byte) {
	if s.state == stateClosed {
		return
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.Debugw("malformed event envelope", "conn", s.client.ConnID, "error", err)
		return
	}

	var err error
	switch env.Type {
	case EventComeOnline:
		err = s.handleComeOnline(ctx, env.Data)
	case EventGoOffline:
		err = s.handleGoOffline(ctx)
	case EventLike:
		err = s.handleLike(ctx, env.Data)
	case EventComment:
		err = s.handleComment(ctx, env.Data)
	case EventPrivateMessage:
		err = s.handlePrivateMessage(ctx, env.Data)
	case EventRequestHistory:
		err = s.handleRequestHistory(ctx, env.Data)
	default:
		s.log.Debugw("unknown event type", "conn", s.client.ConnID, "type", env.Type)
		return
	}

	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			s.log.Debugw("dropping invalid event", "conn", s.client.ConnID, "error", err)
		case errors.Is(err, store.ErrNotFound):
			s.log.Debugw("event target not found", "conn", s.client.ConnID, "type", env.Type)
		default:
			s.log.Errorw("event failed", "conn", s.client.ConnID, "type", env.Type, "error", err)
		}
	}
}

func (s *Session) handleComeOnline(ctx context.Context, data json.RawMessage) error {
	var p ComeOnlinePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{EventComeOnline, "payload"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.registry.MarkOnline(ctx, p.UserID, p.DisplayName, s.client.ConnID); err != nil {
		return err
	}
	s.userID = p.UserID
	s.state = stateIdentified
	return nil
}

func (s *Session) handleGoOffline(ctx context.Context) error {
	if s.state != stateIdentified {
		s.log.Debugw("goOffline from anonymous session", "conn", s.client.ConnID)
		return nil
	}
	if err := s.registry.MarkOfflineByUser(ctx, s.userID); err != nil {
		return err
	}
	s.userID = ""
	s.state = stateAnonymous
	return nil
}

func (s *Session) handleLike(ctx context.Context, data json.RawMessage) error {
	if s.state != stateIdentified {
		s.log.Debugw("like from anonymous session", "conn", s.client.ConnID)
		return nil
	}
	var p LikePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{EventLike, "payload"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	_, count, err := s.store.ToggleLike(ctx, p.PostID, s.userID)
	if err != nil {
		return err
	}
	s.hub.Publish(EventLikeCountChanged, LikeCountEvent{PostID: p.PostID, Count: count})
	return nil
}

func (s *Session) handleComment(ctx context.Context, data json.RawMessage) error {
	if s.state != stateIdentified {
		s.log.Debugw("comment from anonymous session", "conn", s.client.ConnID)
		return nil
	}
	var p CommentPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{EventComment, "payload"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	comment := &store.Comment{
		ID:        store.NewID(),
		PostID:    p.PostID,
		AuthorID:  s.userID,
		Content:   p.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return err
	}
	s.hub.Publish(EventFeedCommentCreated, CommentEvent{Comment: *comment})
	return nil
}

func (s *Session) handlePrivateMessage(ctx context.Context, data json.RawMessage) error {
	if s.state != stateIdentified {
		s.log.Debugw("privateMessage from anonymous session", "conn", s.client.ConnID)
		return nil
	}
	var p PrivateMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{EventPrivateMessage, "payload"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.messenger.Send(ctx, s.userID, p.RecipientID, p.Body)
	return err
}

func (s *Session) handleRequestHistory(ctx context.Context, data json.RawMessage) error {
	if s.state != stateIdentified {
		s.log.Debugw("requestHistory from anonymous session", "conn", s.client.ConnID)
		return nil
	}
	var p RequestHistoryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{EventRequestHistory, "payload"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	messages, err := s.messenger.History(ctx, s.userID, p.WithUserID)
	if err != nil {
		return err
	}
	s.hub.SendTo(s.client.ConnID, EventHistory, HistoryEvent{
		WithUserID: p.WithUserID,
		Messages:   messages,
	})
	return nil
}

// Disconnect tears the session down: presence cleanup for identified
// sessions, then hub deregistration. Safe to call more than once;
// only the first call has any effect.
func (s *Session) Disconnect() {
	if s.state == stateClosed {
		return
	}
	wasIdentified := s.state == stateIdentified
	s.state = stateClosed

	if wasIdentified {
		if err := s.registry.MarkOffline(context.Background(), s.client.ConnID); err != nil {
			s.log.Errorw("presence cleanup on disconnect", "conn", s.client.ConnID, "error", err)
		}
	}
	s.hub.Unregister(s.client)
}
