package contextswitch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/llm"
	"insurance-assistant-be/pkg/store"

	"github.com/google/uuid"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

type nopRecordStore struct{}

func (nopRecordStore) Create(ctx context.Context, kind string, fields map[string]string) (*flow.Record, error) {
	return &flow.Record{Id: uuid.New(), Kind: kind, Fields: fields, CreatedAt: time.Now()}, nil
}

func TestHasTopicChanged(t *testing.T) {
	tests := []struct {
		name  string
		flow  string
		step  int
		topic string
		want  bool
	}{
		{"faq inside active quote", store.FlowQuote, 2, store.FlowFAQ, false},
		{"general inside active quote", store.FlowQuote, 2, store.FlowGeneral, false},
		{"appointment inside active quote", store.FlowQuote, 2, store.FlowAppointment, true},
		{"same topic inside active quote", store.FlowQuote, 2, store.FlowQuote, false},
		{"quote at step zero to appointment", store.FlowQuote, 0, store.FlowAppointment, true},
		{"leaving general is not a switch", store.FlowGeneral, 0, store.FlowAppointment, false},
		{"faq at step zero from quote", store.FlowQuote, 0, store.FlowFAQ, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := store.NewSessionContext("s1", "")
			sess.CurrentFlow = tt.flow
			sess.StepInFlow = tt.step
			if got := HasTopicChanged(tt.topic, sess); got != tt.want {
				t.Errorf("HasTopicChanged(%s, flow=%s step=%d) = %v, want %v",
					tt.topic, tt.flow, tt.step, got, tt.want)
			}
		})
	}
}

func TestShouldInterrupt(t *testing.T) {
	engine := flow.NewEngine(nopRecordStore{}, nil, nil)
	c := NewCoordinator(&fakeProvider{err: errors.New("down")}, engine, nil, 0)

	tests := []struct {
		name  string
		flow  string
		step  int
		topic string
		want  bool
	}{
		{"appointment interrupts active quote", store.FlowQuote, 2, store.FlowAppointment, true},
		{"faq never interrupts", store.FlowQuote, 2, store.FlowFAQ, false},
		{"mixed intent never interrupts", store.FlowQuote, 2, store.FlowMixedIntent, false},
		{"general never interrupts", store.FlowQuote, 2, store.FlowGeneral, false},
		{"from general is plain dispatch", store.FlowGeneral, 0, store.FlowAppointment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := store.NewSessionContext("s1", "")
			sess.CurrentFlow = tt.flow
			sess.StepInFlow = tt.step
			if got := c.ShouldInterrupt(tt.topic, sess); got != tt.want {
				t.Errorf("ShouldInterrupt(%s) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

func TestSwitchToAppointmentPreservesData(t *testing.T) {
	engine := flow.NewEngine(nopRecordStore{}, nil, nil)
	c := NewCoordinator(&fakeProvider{err: errors.New("down")}, engine, nil, 0)

	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = 3
	sess.CollectedData["name"] = "Max Muster"
	sess.CollectedData["email"] = "max@example.ch"

	resp, err := c.Switch(context.Background(), sess, store.FlowAppointment)
	if err != nil {
		t.Fatalf("Switch error: %v", err)
	}

	if sess.CurrentFlow != store.FlowAppointment {
		t.Errorf("CurrentFlow = %s, want appointment", sess.CurrentFlow)
	}
	wantStep := engine.StepIndex(store.FlowAppointment, flow.StepCollectName)
	if sess.StepInFlow != wantStep {
		t.Errorf("StepInFlow = %d, want collect_name index %d", sess.StepInFlow, wantStep)
	}
	if sess.CollectedData["name"] != "Max Muster" {
		t.Error("collected data must survive the switch")
	}
	// Model is down, the fixed transition template applies.
	if !strings.Contains(resp.Text, "Terminvereinbarung") {
		t.Errorf("transition fallback missing, got %q", resp.Text)
	}
	if resp.NextStep != flow.StepCollectName {
		t.Errorf("NextStep = %s, want %s", resp.NextStep, flow.StepCollectName)
	}
}

func TestSwitchToQuoteSurfacesProductMenu(t *testing.T) {
	engine := flow.NewEngine(nopRecordStore{}, nil, nil)
	c := NewCoordinator(&fakeProvider{err: errors.New("down")}, engine, nil, 0)

	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowAppointment
	sess.StepInFlow = 2

	resp, err := c.Switch(context.Background(), sess, store.FlowQuote)
	if err != nil {
		t.Fatalf("Switch error: %v", err)
	}
	if sess.StepInFlow != 0 {
		t.Errorf("StepInFlow = %d, want 0 (insurance_type)", sess.StepInFlow)
	}
	if len(resp.Options) == 0 {
		t.Error("quote destination must surface the product menu")
	}
}

func TestSwitchToDocumentUploadHintsUpload(t *testing.T) {
	engine := flow.NewEngine(nopRecordStore{}, nil, nil)
	c := NewCoordinator(&fakeProvider{err: errors.New("down")}, engine, nil, 0)

	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = 1

	resp, err := c.Switch(context.Background(), sess, store.FlowDocumentUpload)
	if err != nil {
		t.Fatalf("Switch error: %v", err)
	}
	if show, _ := resp.UIHints["showUpload"].(bool); !show {
		t.Error("document_upload destination must hint the upload affordance")
	}
}

func TestSwitchUsesGeneratedTransition(t *testing.T) {
	engine := flow.NewEngine(nopRecordStore{}, nil, nil)
	c := NewCoordinator(&fakeProvider{reply: "Alles klar, wechseln wir zum Termin."}, engine, nil, 0)

	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = 2

	resp, err := c.Switch(context.Background(), sess, store.FlowAppointment)
	if err != nil {
		t.Fatalf("Switch error: %v", err)
	}
	if !strings.Contains(resp.Text, "Alles klar, wechseln wir zum Termin.") {
		t.Errorf("generated transition missing from %q", resp.Text)
	}
}
