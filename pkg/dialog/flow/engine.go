package flow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"insurance-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// Step names. Sequences are data; handlers are looked up by (flow, step) so
// steps can be inserted or reordered without breaking positional assumptions.
const (
	StepGreeting        = "greeting"
	StepCollectName     = "collect_name"
	StepCollectEmail    = "collect_email"
	StepCollectPhone    = "collect_phone"
	StepAppointmentType = "appointment_type"
	StepPreferredDate   = "preferred_date"
	StepConfirm         = "confirm"
	StepInsuranceType   = "insurance_type"
	StepConfirmData     = "confirm_data"
	StepFinalize        = "finalize"
	StepUploadRequest   = "upload_request"
	StepDocumentType    = "document_type"
)

// Record kinds written to the record store at flow completion.
const (
	RecordKindAppointment = "appointment"
	RecordKindQuote       = "quote_request"
	RecordKindDocument    = "document_submission"
)

// Response is what a step handler (or the coordinator) hands back to the
// dispatcher for a single turn.
type Response struct {
	Text     string                 `json:"text"`
	NextStep string                 `json:"next_step,omitempty"`
	Options  []string               `json:"options,omitempty"`
	UIHints  map[string]interface{} `json:"ui_hints,omitempty"`
}

// HandlerFunc processes one message for one step, possibly mutating the
// session's collected data and step pointer.
type HandlerFunc func(ctx context.Context, message string, sess *store.SessionContext) (*Response, error)

// Record is the persisted outcome of a completed flow.
type Record struct {
	Id        uuid.UUID         `json:"id"`
	Kind      string            `json:"kind"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

// ReferenceNumber derives the user-visible reference from the record id.
func (r *Record) ReferenceNumber() string {
	id := r.Id.String()
	if len(id) < 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}

// RecordStore is the persistence collaborator invoked once at flow completion.
type RecordStore interface {
	Create(ctx context.Context, kind string, fields map[string]string) (*Record, error)
}

// Notifier is the fire-and-forget notification collaborator. Implementations
// must swallow failures (log only), never surface them.
type Notifier interface {
	Notify(record *Record)
}

type stepKey struct {
	flow string
	step string
}

// Engine drives the named step sequences. Sequences and the handler table are
// both plain data so flows stay swappable.
type Engine struct {
	sequences map[string][]string
	handlers  map[stepKey]HandlerFunc
	records   RecordStore
	notifier  Notifier
	logger    *log.Logger
}

func NewEngine(records RecordStore, notifier Notifier, logger *log.Logger) *Engine {
	e := &Engine{
		sequences: make(map[string][]string),
		handlers:  make(map[stepKey]HandlerFunc),
		records:   records,
		notifier:  notifier,
		logger:    logger,
	}
	e.registerDefaults()
	return e
}

// RegisterFlow declares the ordered step names for a flow.
func (e *Engine) RegisterFlow(name string, steps []string) {
	e.sequences[name] = steps
}

// RegisterStep binds a handler to a (flow, step) pair.
func (e *Engine) RegisterStep(flowName, stepName string, handler HandlerFunc) {
	e.handlers[stepKey{flowName, stepName}] = handler
}

// Steps returns the step sequence of a flow (nil if unknown).
func (e *Engine) Steps(flowName string) []string {
	return e.sequences[flowName]
}

// StepIndex returns the position of a step inside a flow, or -1.
func (e *Engine) StepIndex(flowName, stepName string) int {
	for i, s := range e.sequences[flowName] {
		if s == stepName {
			return i
		}
	}
	return -1
}

// HasFlow reports whether the engine knows a step sequence for the flow.
func (e *Engine) HasFlow(flowName string) bool {
	_, ok := e.sequences[flowName]
	return ok
}

// Completed is the completion predicate: the step pointer ran off the end.
func (e *Engine) Completed(sess *store.SessionContext) bool {
	steps, ok := e.sequences[sess.CurrentFlow]
	if !ok {
		return false
	}
	return sess.StepInFlow >= len(steps)
}

// Handle routes the message to the handler of the session's current step.
func (e *Engine) Handle(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	steps, ok := e.sequences[sess.CurrentFlow]
	if !ok {
		return nil, fmt.Errorf("no flow registered: %s", sess.CurrentFlow)
	}

	if sess.StepInFlow >= len(steps) {
		// Flow already completed; offer a fresh start without touching data.
		return &Response{
			Text: "Ihr Anliegen ist bereits abgeschlossen. Womit kann ich Ihnen sonst noch helfen?",
			Options: []string{
				"Termin vereinbaren", "Offerte anfordern", "Dokument einreichen", "Frage stellen",
			},
		}, nil
	}

	stepName := steps[sess.StepInFlow]
	handler, ok := e.handlers[stepKey{sess.CurrentFlow, stepName}]
	if !ok {
		return nil, fmt.Errorf("no handler for step %s/%s", sess.CurrentFlow, stepName)
	}

	if e.logger != nil {
		e.logger.Printf("[FLOW] session=%s flow=%s step=%s(%d)", sess.Id, sess.CurrentFlow, stepName, sess.StepInFlow)
	}
	return handler(ctx, message, sess)
}

// advance moves the step pointer forward and returns the new step name.
func (e *Engine) advance(sess *store.SessionContext) string {
	sess.StepInFlow++
	steps := e.sequences[sess.CurrentFlow]
	if sess.StepInFlow < len(steps) {
		return steps[sess.StepInFlow]
	}
	return ""
}

// complete creates the record, marks the flow done and fires the notifier.
// On persistence failure the step pointer stays put so the user can retry.
func (e *Engine) complete(ctx context.Context, sess *store.SessionContext, kind string) (*Response, error) {
	fields := make(map[string]string, len(sess.CollectedData)+1)
	for k, v := range sess.CollectedData {
		fields[k] = v
	}
	fields["sessionId"] = sess.Id
	if sess.UserId != "" {
		fields["userId"] = sess.UserId
	}
	fields["urgency"] = sess.Urgency

	record, err := e.records.Create(ctx, kind, fields)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("[FLOW] record creation failed for session=%s kind=%s: %v", sess.Id, kind, err)
		}
		return &Response{
			Text: "Es tut mir leid, beim Speichern Ihrer Anfrage ist ein Fehler aufgetreten. " +
				"Bitte versuchen Sie es in einem Moment erneut oder rufen Sie uns unter 0800 123 456 an.",
		}, nil
	}

	sess.StepInFlow = len(e.sequences[sess.CurrentFlow])

	if e.notifier != nil {
		e.notifier.Notify(record)
	}

	return &Response{
		Text: fmt.Sprintf("Vielen Dank! Ihre Anfrage wurde erfasst. Ihre Referenznummer lautet %s. "+
			"Sie erhalten in Kürze eine Bestätigung.", record.ReferenceNumber()),
	}, nil
}
