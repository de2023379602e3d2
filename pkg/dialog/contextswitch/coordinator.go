package contextswitch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/llm"
	"insurance-assistant-be/pkg/store"
)

// compatibleIntents lists, per flow, the intents that may co-occur with it
// without counting as a topic switch. Every set carries faq and general so
// interim questions and small talk never tear down an active flow.
var compatibleIntents = map[string][]string{
	store.FlowGeneral:        {store.FlowGeneral, store.FlowFAQ},
	store.FlowAppointment:    {store.FlowAppointment, store.FlowFAQ, store.FlowGeneral},
	store.FlowQuote:          {store.FlowQuote, store.FlowFAQ, store.FlowGeneral},
	store.FlowDocumentUpload: {store.FlowDocumentUpload, store.FlowFAQ, store.FlowGeneral},
	store.FlowFAQ:            {store.FlowFAQ, store.FlowGeneral},
	store.FlowMixedIntent:    {store.FlowMixedIntent, store.FlowFAQ, store.FlowGeneral},
}

var flowLabels = map[string]string{
	store.FlowGeneral:        "allgemeine Anfrage",
	store.FlowAppointment:    "Terminvereinbarung",
	store.FlowQuote:          "Offerten-Anfrage",
	store.FlowDocumentUpload: "Dokument-Einreichung",
	store.FlowFAQ:            "Versicherungsfrage",
	store.FlowMixedIntent:    "mehrere Anliegen",
}

var transitionFallbacks = map[string]string{
	store.FlowAppointment:    "Gerne wechsle ich zur Terminvereinbarung.",
	store.FlowQuote:          "Gerne, kümmern wir uns um Ihre Offerte.",
	store.FlowDocumentUpload: "Gerne, kümmern wir uns um Ihr Dokument.",
}

const transitionFallbackDefault = "Gerne, schauen wir uns Ihr neues Anliegen an."

// Compatible reports whether an intent may co-occur with the given flow.
func Compatible(flowName, intent string) bool {
	for _, c := range compatibleIntents[flowName] {
		if c == intent {
			return true
		}
	}
	return false
}

// HasTopicChanged decides whether a classified topic counts as a topic switch
// for the session. Mid-flow, compatible intents never count; a flow of
// "general" never counts as a source.
func HasTopicChanged(topic string, sess *store.SessionContext) bool {
	if sess.StepInFlow > 0 && Compatible(sess.CurrentFlow, topic) {
		return false
	}
	return topic != sess.CurrentFlow && sess.CurrentFlow != store.FlowGeneral
}

// Coordinator owns the interrupt decision and the transition turn when a
// session jumps between flows.
type Coordinator struct {
	llm     llm.LLMProvider
	engine  *flow.Engine
	logger  *log.Logger
	timeout time.Duration
}

func NewCoordinator(provider llm.LLMProvider, engine *flow.Engine, logger *log.Logger, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Coordinator{llm: provider, engine: engine, logger: logger, timeout: timeout}
}

// ShouldInterrupt reports whether the classified topic must take over the
// session right now. FAQ is answered in place and mixed intents are
// disambiguated by the dispatcher, so neither interrupts; leaving "general"
// is ordinary first dispatch, not a switch.
func (c *Coordinator) ShouldInterrupt(topic string, sess *store.SessionContext) bool {
	if topic == store.FlowGeneral || topic == store.FlowMixedIntent || topic == store.FlowFAQ {
		return false
	}
	if sess.CurrentFlow == store.FlowGeneral {
		return false
	}
	return HasTopicChanged(topic, sess)
}

// Switch moves the session onto the destination flow, generates a bridging
// utterance and attaches the destination's first actionable prompt. Collected
// data survives the switch.
func (c *Coordinator) Switch(ctx context.Context, sess *store.SessionContext, topic string) (*flow.Response, error) {
	oldFlow := sess.CurrentFlow
	transition := c.transition(ctx, oldFlow, topic)

	sess.CurrentFlow = topic
	sess.StepInFlow = 0

	resp := &flow.Response{Text: transition}
	switch topic {
	case store.FlowQuote:
		resp.Text += " Für welche Versicherung möchten Sie eine Offerte?"
		resp.Options = flow.ProductOptions()
		resp.NextStep = flow.StepInsuranceType
	case store.FlowAppointment:
		// Skip the greeting step, go straight to name collection.
		if idx := c.engine.StepIndex(store.FlowAppointment, flow.StepCollectName); idx > 0 {
			sess.StepInFlow = idx
		}
		resp.Text += " Wie heissen Sie?"
		resp.NextStep = flow.StepCollectName
	case store.FlowDocumentUpload:
		if idx := c.engine.StepIndex(store.FlowDocumentUpload, flow.StepCollectName); idx > 0 {
			sess.StepInFlow = idx
		}
		resp.Text += " Sie können die Datei über das Büroklammer-Symbol hochladen. Wie heissen Sie?"
		resp.NextStep = flow.StepCollectName
		resp.UIHints = map[string]interface{}{"showUpload": true}
	}

	if c.logger != nil {
		c.logger.Printf("[SWITCH] session=%s %s -> %s (switches=%d)", sess.Id, oldFlow, topic, sess.ContextSwitchCount)
	}
	return resp, nil
}

// transition asks the model for a short bridging sentence and falls back to a
// fixed template per destination.
func (c *Coordinator) transition(ctx context.Context, oldFlow, newFlow string) string {
	fallback, ok := transitionFallbacks[newFlow]
	if !ok {
		fallback = transitionFallbackDefault
	}
	if c.llm == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Der Kunde eines Schweizer Versicherungs-Assistenten wechselt das Thema von %q zu %q. "+
			"Bestätige den Wechsel kurz und freundlich auf Deutsch und leite natürlich über. "+
			"Maximal 100 Wörter, keine Aufzählungen.",
		flowLabels[oldFlow], flowLabels[newFlow])

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.llm.Generate(genCtx, prompt, llm.WithTemperature(0.7), llm.WithMaxTokens(150))
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[SWITCH] transition generation failed (%s -> %s): %v", oldFlow, newFlow, err)
		}
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}
