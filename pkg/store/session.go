package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Flow names double as topic/intent labels: the classifier emits them and the
// dispatcher routes on them.
const (
	FlowGeneral        = "general"
	FlowDocumentUpload = "document_upload"
	FlowAppointment    = "appointment"
	FlowQuote          = "quote"
	FlowFAQ            = "faq"
	FlowMixedIntent    = "mixed_intent"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is a single conversation turn. Immutable once appended.
type Message struct {
	Id        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
}

// SessionContext is the per-session dialog state. One instance per session id,
// mutated by the dispatcher, flow engine and context-switch coordinator.
type SessionContext struct {
	Id                  string            `json:"id"`
	UserId              string            `json:"user_id,omitempty"`
	CurrentFlow         string            `json:"current_flow"`
	StepInFlow          int               `json:"step_in_flow"`
	CollectedData       map[string]string `json:"collected_data"`
	ConversationHistory []Message         `json:"conversation_history"`
	TopicHistory        []string          `json:"topic_history"`
	ContextSwitchCount  int               `json:"context_switch_count"`
	LastTopicChange     *time.Time        `json:"last_topic_change,omitempty"`
	PreviousFlow        string            `json:"previous_flow,omitempty"`
	Urgency             string            `json:"urgency"`
	CreatedAt           time.Time         `json:"created_at"`
}

// NewSessionContext creates a fresh session in the general flow.
func NewSessionContext(id, userId string) *SessionContext {
	return &SessionContext{
		Id:            id,
		UserId:        userId,
		CurrentFlow:   FlowGeneral,
		CollectedData: make(map[string]string),
		Urgency:       UrgencyLow,
		CreatedAt:     time.Now(),
	}
}

// AppendMessage records a turn in the conversation history (append-only).
func (s *SessionContext) AppendMessage(sender, text string) Message {
	msg := Message{
		Id:        uuid.New(),
		Timestamp: time.Now(),
		Sender:    sender,
		Text:      text,
	}
	s.ConversationHistory = append(s.ConversationHistory, msg)
	return msg
}

// LastMessages returns up to n most recent messages, oldest first.
func (s *SessionContext) LastMessages(n int) []Message {
	if n <= 0 || len(s.ConversationHistory) == 0 {
		return nil
	}
	if len(s.ConversationHistory) <= n {
		return s.ConversationHistory
	}
	return s.ConversationHistory[len(s.ConversationHistory)-n:]
}

// RecordTopicChange applies the bookkeeping side effects of a detected topic
// change: topic history, switch counter, timestamp and previous flow.
func (s *SessionContext) RecordTopicChange(topic string) {
	s.TopicHistory = append(s.TopicHistory, topic)
	s.ContextSwitchCount++
	now := time.Now()
	s.LastTopicChange = &now
	s.PreviousFlow = s.CurrentFlow
}

// SessionStore abstracts per-session state storage so the dispatcher never
// depends on a process-wide singleton. Implementations: in-memory cache, Redis.
type SessionStore interface {
	Get(ctx context.Context, sessionId string) (*SessionContext, bool)
	Save(ctx context.Context, session *SessionContext) error
	Delete(ctx context.Context, sessionId string) error
}
