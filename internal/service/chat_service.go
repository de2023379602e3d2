package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/dto"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/pkg/dialog/contextswitch"
	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/dialog/intent"
	"insurance-assistant-be/pkg/dialog/knowledge"
	"insurance-assistant-be/pkg/llm"
	"insurance-assistant-be/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage    = errors.New("message must not be empty")
	ErrUnknownAction   = errors.New("unknown action")
	ErrSessionNotFound = errors.New("session not found")
)

const ActionMessage = "message"

type IChatService interface {
	HandleTurn(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
}

// chatService is the dispatcher: it owns the session lifecycle for a turn and
// routes between the classifier, the coordinator, the knowledge base and the
// flow engine.
type chatService struct {
	sessions    store.SessionStore
	classifier  *intent.Classifier
	coordinator *contextswitch.Coordinator
	engine      *flow.Engine
	kb          *knowledge.Searcher
	llm         llm.LLMProvider
	logger      logger.ILogger
	llmTimeout  time.Duration
}

func NewChatService(
	sessions store.SessionStore,
	classifier *intent.Classifier,
	coordinator *contextswitch.Coordinator,
	engine *flow.Engine,
	kb *knowledge.Searcher,
	provider llm.LLMProvider,
	log logger.ILogger,
	llmTimeout time.Duration,
) IChatService {
	if llmTimeout <= 0 {
		llmTimeout = 20 * time.Second
	}
	return &chatService{
		sessions:    sessions,
		classifier:  classifier,
		coordinator: coordinator,
		engine:      engine,
		kb:          kb,
		llm:         provider,
		logger:      log,
		llmTimeout:  llmTimeout,
	}
}

func (s *chatService) HandleTurn(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	action := req.Action
	if action == "" {
		action = ActionMessage
	}
	if action != ActionMessage {
		return nil, ErrUnknownAction
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	sess, found := s.sessions.Get(ctx, req.SessionId)
	if !found {
		sess = store.NewSessionContext(req.SessionId, req.UserId)
	}
	sess.AppendMessage(store.SenderUser, req.Message)
	// Eagerly created sessions are already stored, so first-turn is derived
	// from the history, not from store presence.
	firstTurn := len(sess.ConversationHistory) == 1

	res := s.classifier.Classify(ctx, req.Message, sess)
	sess.Urgency = maxUrgency(sess.Urgency, res.Urgency)

	resp, err := s.route(ctx, req.Message, sess, res, firstTurn)
	if err != nil {
		return nil, err
	}

	sess.AppendMessage(store.SenderBot, resp.Text)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("ChatService", "Failed to persist session", map[string]interface{}{
			"error": err, "session_id": sess.Id,
		})
		return nil, err
	}

	return &dto.SendMessageResponse{
		SessionId:   sess.Id,
		Text:        resp.Text,
		NextStep:    resp.NextStep,
		Options:     resp.Options,
		UIHints:     resp.UIHints,
		CurrentFlow: sess.CurrentFlow,
		StepInFlow:  sess.StepInFlow,
		Urgency:     sess.Urgency,
	}, nil
}

// route implements the per-turn decision order: interrupt, disambiguate,
// knowledge lookup, then the (possibly reassigned) flow.
func (s *chatService) route(ctx context.Context, message string, sess *store.SessionContext, res intent.Result, firstTurn bool) (*flow.Response, error) {
	if s.coordinator.ShouldInterrupt(res.Topic, sess) {
		return s.coordinator.Switch(ctx, sess, res.Topic)
	}

	switch res.Topic {
	case store.FlowMixedIntent:
		sess.CurrentFlow = store.FlowGeneral
		sess.StepInFlow = 0
		return &flow.Response{
			Text:    constant.DisambiguationText,
			Options: constant.DisambiguationOptions,
		}, nil

	case store.FlowFAQ:
		// Answered in place; a compatible active flow keeps its step and
		// currentFlow deliberately stays put, faq is never entered as a flow.
		return s.answerFAQ(ctx, message, sess), nil
	}

	active := sess.CurrentFlow != store.FlowGeneral &&
		s.engine.HasFlow(sess.CurrentFlow) &&
		!s.engine.Completed(sess)
	if !active || !contextswitch.Compatible(sess.CurrentFlow, res.Topic) {
		if s.engine.HasFlow(res.Topic) {
			sess.CurrentFlow = res.Topic
		} else {
			sess.CurrentFlow = store.FlowGeneral
		}
		sess.StepInFlow = 0
	}

	if sess.CurrentFlow == store.FlowGeneral {
		return s.smallTalk(ctx, sess, firstTurn), nil
	}
	return s.engine.Handle(ctx, message, sess)
}

// answerFAQ consults the knowledge base first and escalates to the model only
// on a miss.
func (s *chatService) answerFAQ(ctx context.Context, message string, sess *store.SessionContext) *flow.Response {
	result := s.kb.Search(message)
	if result.Found {
		return &flow.Response{Text: result.Answer}
	}

	systemPrompt := constant.FaqSystemPromptV1
	if sess.Urgency == store.UrgencyHigh {
		systemPrompt += "\n\n" + constant.UrgencyHintHighV1
	}

	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	text, err := s.llm.Generate(genCtx, message,
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.3),
	)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("ChatService", "FAQ escalation failed", map[string]interface{}{
			"error": err, "session_id": sess.Id,
		})
		return &flow.Response{Text: constant.FaqFallbackText}
	}
	return &flow.Response{Text: strings.TrimSpace(text)}
}

// smallTalk handles the general flow: a fixed welcome menu on the first turn,
// free conversation afterwards.
func (s *chatService) smallTalk(ctx context.Context, sess *store.SessionContext, firstTurn bool) *flow.Response {
	if firstTurn {
		return &flow.Response{
			Text:    constant.WelcomeText,
			Options: constant.WelcomeOptions,
		}
	}

	history := sess.LastMessages(6)
	messages := make([]llm.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Sender, Content: m.Text})
	}

	genCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	text, err := s.llm.Chat(genCtx, messages,
		llm.WithSystemPrompt(constant.SmallTalkSystemPromptV1),
		llm.WithTemperature(0.7),
	)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn("ChatService", "Small talk generation failed", map[string]interface{}{
			"error": err, "session_id": sess.Id,
		})
		return &flow.Response{
			Text:    constant.SmallTalkFallbackText,
			Options: constant.WelcomeOptions,
		}
	}
	return &flow.Response{Text: strings.TrimSpace(text)}
}

func (s *chatService) CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error) {
	sess := store.NewSessionContext(uuid.New().String(), userId)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{SessionId: sess.Id}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	sess, found := s.sessions.Get(ctx, sessionId)
	if !found {
		return nil, ErrSessionNotFound
	}

	entries := make([]dto.ChatHistoryEntry, 0, len(sess.ConversationHistory))
	for _, m := range sess.ConversationHistory {
		entries = append(entries, dto.ChatHistoryEntry{
			Id:        m.Id,
			Sender:    m.Sender,
			Text:      m.Text,
			CreatedAt: m.Timestamp,
		})
	}

	return &dto.GetChatHistoryResponse{
		SessionId:   sess.Id,
		CurrentFlow: sess.CurrentFlow,
		StepInFlow:  sess.StepInFlow,
		Messages:    entries,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionId string) error {
	return s.sessions.Delete(ctx, sessionId)
}

var urgencyRank = map[string]int{
	store.UrgencyLow:    0,
	store.UrgencyMedium: 1,
	store.UrgencyHigh:   2,
}

// maxUrgency only ever escalates; a calm follow-up never downgrades an
// urgent session.
func maxUrgency(current, detected string) string {
	if urgencyRank[detected] > urgencyRank[current] {
		return detected
	}
	return current
}
