package flow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"insurance-assistant-be/pkg/store"

	"github.com/google/uuid"
)

type stubRecordStore struct {
	mu      sync.Mutex
	records []*Record
	err     error
}

func (s *stubRecordStore) Create(ctx context.Context, kind string, fields map[string]string) (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	rec := &Record{Id: uuid.New(), Kind: kind, Fields: copied, CreatedAt: time.Now()}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return rec, nil
}

type stubNotifier struct {
	notified []*Record
}

func (n *stubNotifier) Notify(record *Record) {
	n.notified = append(n.notified, record)
}

func handle(t *testing.T, e *Engine, sess *store.SessionContext, message string) *Response {
	t.Helper()
	resp, err := e.Handle(context.Background(), message, sess)
	if err != nil {
		t.Fatalf("Handle(%q) error: %v", message, err)
	}
	return resp
}

func TestAppointmentFlowEndToEnd(t *testing.T) {
	records := &stubRecordStore{}
	notifier := &stubNotifier{}
	e := NewEngine(records, notifier, nil)

	sess := store.NewSessionContext("s1", "u1")
	sess.CurrentFlow = store.FlowAppointment

	handle(t, e, sess, "Ich möchte einen Termin")
	handle(t, e, sess, "Ich heisse Max Muster")
	handle(t, e, sess, "max@example.ch")
	handle(t, e, sess, "079 123 45 67")
	handle(t, e, sess, "Beratung")
	resp := handle(t, e, sess, "Montag um 14 Uhr")

	if !strings.Contains(resp.Text, "Max Muster") {
		t.Errorf("summary should contain the collected name, got %q", resp.Text)
	}
	if sess.StepInFlow != 6 {
		t.Fatalf("StepInFlow = %d, want 6 (confirm)", sess.StepInFlow)
	}

	final := handle(t, e, sess, "Ja")

	if len(records.records) != 1 {
		t.Fatalf("record count = %d, want exactly 1", len(records.records))
	}
	rec := records.records[0]
	if rec.Kind != RecordKindAppointment {
		t.Errorf("kind = %s, want %s", rec.Kind, RecordKindAppointment)
	}
	if rec.Fields[DataName] != "Max Muster" || rec.Fields[DataEmail] != "max@example.ch" {
		t.Errorf("record fields incomplete: %v", rec.Fields)
	}
	if rec.Fields["sessionId"] != "s1" || rec.Fields["userId"] != "u1" {
		t.Errorf("record missing session attribution: %v", rec.Fields)
	}

	ref := rec.ReferenceNumber()
	if len(ref) != 8 || ref != strings.ToUpper(ref) {
		t.Errorf("reference number %q must be 8 uppercased chars", ref)
	}
	if !strings.Contains(final.Text, ref) {
		t.Errorf("final text %q must contain reference %s", final.Text, ref)
	}

	if !e.Completed(sess) {
		t.Error("flow must be complete after confirmation")
	}
	if len(notifier.notified) != 1 {
		t.Errorf("notifier calls = %d, want 1", len(notifier.notified))
	}

	// Another confirmation must not create a second record.
	handle(t, e, sess, "Ja")
	if len(records.records) != 1 {
		t.Errorf("completed flow created another record, count = %d", len(records.records))
	}
}

func TestInvalidEmailRepromptsWithoutAdvancing(t *testing.T) {
	e := NewEngine(&stubRecordStore{}, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowAppointment
	sess.StepInFlow = e.StepIndex(store.FlowAppointment, StepCollectEmail)

	resp := handle(t, e, sess, "keine Ahnung")

	if resp.NextStep != StepCollectEmail {
		t.Errorf("NextStep = %s, want re-prompt for %s", resp.NextStep, StepCollectEmail)
	}
	if sess.StepInFlow != e.StepIndex(store.FlowAppointment, StepCollectEmail) {
		t.Error("invalid input must not advance the step")
	}
	if _, ok := sess.CollectedData[DataEmail]; ok {
		t.Error("invalid email must not be stored")
	}

	// Idempotent: a second bad input behaves identically.
	resp2 := handle(t, e, sess, "immer noch nichts")
	if resp2.Text != resp.Text || resp2.NextStep != resp.NextStep {
		t.Error("re-prompt must be stable across repeated invalid input")
	}
}

func TestQuoteConfirmDataNegativeResets(t *testing.T) {
	e := NewEngine(&stubRecordStore{}, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = e.StepIndex(store.FlowQuote, StepConfirmData)
	sess.CollectedData[DataName] = "Max Muster"
	sess.CollectedData[DataInsuranceType] = "krankenversicherung"

	resp := handle(t, e, sess, "Nein, stimmt nicht")

	if sess.StepInFlow != e.StepIndex(store.FlowQuote, StepCollectName) {
		t.Errorf("StepInFlow = %d, want the collect_name index", sess.StepInFlow)
	}
	if len(sess.CollectedData) != 0 {
		t.Errorf("CollectedData = %v, want cleared", sess.CollectedData)
	}
	if resp.NextStep != StepCollectName {
		t.Errorf("NextStep = %s, want %s", resp.NextStep, StepCollectName)
	}
}

func TestGenericQuoteRequestShowsProductMenu(t *testing.T) {
	e := NewEngine(&stubRecordStore{}, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote

	resp := handle(t, e, sess, "Ich möchte eine Offerte")

	if len(resp.Options) == 0 {
		t.Fatal("generic quote request must surface the product menu")
	}
	if sess.StepInFlow != 0 {
		t.Errorf("StepInFlow = %d, menu must not advance the flow", sess.StepInFlow)
	}

	// Picking a product advances past insurance_type.
	resp = handle(t, e, sess, "Krankenversicherung")
	if sess.CollectedData[DataInsuranceType] != "krankenversicherung" {
		t.Errorf("insuranceType = %q, want krankenversicherung", sess.CollectedData[DataInsuranceType])
	}
	if resp.NextStep != StepCollectName {
		t.Errorf("NextStep = %s, want %s", resp.NextStep, StepCollectName)
	}
}

func TestDocumentUploadFlow(t *testing.T) {
	records := &stubRecordStore{}
	e := NewEngine(records, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowDocumentUpload

	resp := handle(t, e, sess, "Ich möchte ein Dokument einreichen")
	if show, _ := resp.UIHints["showUpload"].(bool); !show {
		t.Error("upload_request must hint the upload affordance")
	}

	handle(t, e, sess, "Anna Keller")
	handle(t, e, sess, "anna@example.ch")
	handle(t, e, sess, "einen Unfallbericht")
	if sess.CollectedData[DataDocumentType] != "unfallbericht" {
		t.Errorf("documentType = %q, want unfallbericht", sess.CollectedData[DataDocumentType])
	}

	handle(t, e, sess, "Ja")
	if len(records.records) != 1 || records.records[0].Kind != RecordKindDocument {
		t.Fatalf("expected one document_submission record, got %v", records.records)
	}
}

func TestPersistenceFailureKeepsStep(t *testing.T) {
	records := &stubRecordStore{err: errors.New("db down")}
	e := NewEngine(records, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowAppointment
	confirmIdx := e.StepIndex(store.FlowAppointment, StepConfirm)
	sess.StepInFlow = confirmIdx

	resp := handle(t, e, sess, "Ja")

	if !strings.Contains(resp.Text, "0800 123 456") {
		t.Errorf("apology must offer the human fallback, got %q", resp.Text)
	}
	if sess.StepInFlow != confirmIdx {
		t.Error("persistence failure must not advance to complete")
	}
	if e.Completed(sess) {
		t.Error("flow must not be marked complete on persistence failure")
	}
}

func TestTerminalConfirmNegativeKeepsData(t *testing.T) {
	records := &stubRecordStore{}
	e := NewEngine(records, nil, nil)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowAppointment
	sess.StepInFlow = e.StepIndex(store.FlowAppointment, StepConfirm)
	sess.CollectedData[DataName] = "Max Muster"

	resp := handle(t, e, sess, "Nein")

	if len(resp.Options) == 0 {
		t.Error("negative confirmation must offer a change menu")
	}
	if sess.CollectedData[DataName] != "Max Muster" {
		t.Error("negative confirmation must not lose collected data")
	}
	if len(records.records) != 0 {
		t.Error("negative confirmation must not create a record")
	}
}
