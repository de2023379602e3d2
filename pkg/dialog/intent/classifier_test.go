package intent

import (
	"context"
	"errors"
	"testing"

	"insurance-assistant-be/pkg/llm"
	"insurance-assistant-be/pkg/store"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestPatternScore(t *testing.T) {
	c := NewClassifier(&fakeProvider{err: errors.New("down")}, nil, 0)

	tests := []struct {
		name      string
		message   string
		wantTopic string
		minConf   float64
		maxConf   float64
	}{
		{
			name:      "quote with product",
			message:   "I would like a quote for health insurance",
			wantTopic: "quote",
			minConf:   0.65,
			maxConf:   0.95,
		},
		{
			name:      "price question routes to faq not quote",
			message:   "What does travel insurance cost?",
			wantTopic: "faq",
			minConf:   0.9,
			maxConf:   0.95,
		},
		{
			name:      "appointment with booking verb",
			message:   "Ich möchte einen Termin vereinbaren",
			wantTopic: "appointment",
			minConf:   0.65,
			maxConf:   0.95,
		},
		{
			name:      "single word is capped",
			message:   "Termin",
			wantTopic: "appointment",
			minConf:   0.0,
			maxConf:   0.1,
		},
		{
			name:      "negation dampens quote",
			message:   "Ich will keine Offerte",
			wantTopic: "quote",
			minConf:   0.0,
			maxConf:   0.2,
		},
		{
			name:      "just asking overrides negation",
			message:   "Ich will keine Offerte, das ist nur eine Frage",
			wantTopic: "faq",
			minConf:   0.8,
			maxConf:   0.8,
		},
		{
			name:      "two topics with conjunction force mixed intent",
			message:   "Ich möchte eine Offerte und einen Termin vereinbaren",
			wantTopic: "mixed_intent",
			minConf:   0.95,
			maxConf:   0.95,
		},
		{
			name:      "trailing action clause wins over leading question",
			message:   "Was kostet das? Ich möchte einen Termin vereinbaren.",
			wantTopic: "appointment",
			minConf:   0.65,
			maxConf:   0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, conf := c.patternScore(tt.message)
			if topic != tt.wantTopic {
				t.Errorf("patternScore(%q) topic = %s, want %s", tt.message, topic, tt.wantTopic)
			}
			if conf < tt.minConf || conf > tt.maxConf {
				t.Errorf("patternScore(%q) confidence = %.2f, want in [%.2f, %.2f]",
					tt.message, conf, tt.minConf, tt.maxConf)
			}
		})
	}
}

func TestClassifyFastPathSkipsModel(t *testing.T) {
	provider := &fakeProvider{err: errors.New("must not be called")}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")

	res := c.Classify(context.Background(), "Ich möchte einen Termin vereinbaren", sess)

	if res.Method != MethodPattern {
		t.Errorf("method = %s, want %s", res.Method, MethodPattern)
	}
	if res.Topic != store.FlowAppointment {
		t.Errorf("topic = %s, want %s", res.Topic, store.FlowAppointment)
	}
	if provider.calls != 0 {
		t.Errorf("model was called %d times on the fast path", provider.calls)
	}
}

func TestClassifyHybridKeepsStrongerModelTopic(t *testing.T) {
	provider := &fakeProvider{reply: "document_upload|0.9"}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")

	// "Brauche eine Offerte" scores 0.6: hybrid band.
	res := c.Classify(context.Background(), "Brauche eine Offerte", sess)

	if res.Method != MethodHybrid {
		t.Fatalf("method = %s, want %s", res.Method, MethodHybrid)
	}
	if res.Topic != store.FlowDocumentUpload {
		t.Errorf("topic = %s, want model topic with clear margin", res.Topic)
	}
	if res.Confidence != 0.9 {
		t.Errorf("confidence = %.2f, want max(pattern, ai) = 0.9", res.Confidence)
	}
}

func TestClassifyHybridKeepsPatternTopicWithoutMargin(t *testing.T) {
	provider := &fakeProvider{reply: "document_upload|0.65"}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")

	res := c.Classify(context.Background(), "Brauche eine Offerte", sess)

	if res.Topic != store.FlowQuote {
		t.Errorf("topic = %s, want pattern topic when model margin <= 0.2", res.Topic)
	}
	if res.Confidence != 0.65 {
		t.Errorf("confidence = %.2f, want 0.65", res.Confidence)
	}
}

func TestClassifyFailureFallsBackToGeneral(t *testing.T) {
	provider := &fakeProvider{err: errors.New("ollama down")}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")

	res := c.Classify(context.Background(), "Hmm", sess)

	if res.Topic != store.FlowGeneral {
		t.Errorf("topic = %s, want general on collaborator failure", res.Topic)
	}
	if res.Confidence != 0.3 {
		t.Errorf("confidence = %.2f, want 0.3", res.Confidence)
	}
}

func TestClassifyRecordsTopicChange(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = 2

	res := c.Classify(context.Background(), "Ich möchte einen Termin vereinbaren", sess)

	if !res.TopicChanged {
		t.Fatal("expected topic change from mid-quote to appointment")
	}
	if sess.ContextSwitchCount != 1 {
		t.Errorf("ContextSwitchCount = %d, want 1", sess.ContextSwitchCount)
	}
	if sess.PreviousFlow != store.FlowQuote {
		t.Errorf("PreviousFlow = %s, want quote", sess.PreviousFlow)
	}
	if len(sess.TopicHistory) != 1 || sess.TopicHistory[0] != store.FlowAppointment {
		t.Errorf("TopicHistory = %v, want [appointment]", sess.TopicHistory)
	}
}

func TestClassifyCompatibleIntentIsNoSwitch(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	c := NewClassifier(provider, nil, 0)
	sess := store.NewSessionContext("s1", "")
	sess.CurrentFlow = store.FlowQuote
	sess.StepInFlow = 2

	res := c.Classify(context.Background(), "What does travel insurance cost?", sess)

	if res.Topic != store.FlowFAQ {
		t.Fatalf("topic = %s, want faq", res.Topic)
	}
	if res.TopicChanged {
		t.Error("faq is compatible with an active quote flow, must not count as a switch")
	}
	if sess.ContextSwitchCount != 0 {
		t.Errorf("ContextSwitchCount = %d, want 0", sess.ContextSwitchCount)
	}
}

func TestDetectUrgency(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Notfall! Ich hatte einen Unfall", store.UrgencyHigh},
		{"Bitte so schnell wie möglich", store.UrgencyMedium},
		{"Ich hätte gerne eine Offerte", store.UrgencyLow},
	}
	for _, tt := range tests {
		if got := DetectUrgency(tt.message); got != tt.want {
			t.Errorf("DetectUrgency(%q) = %s, want %s", tt.message, got, tt.want)
		}
	}
}
