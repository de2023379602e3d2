package intent

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"insurance-assistant-be/pkg/dialog/contextswitch"
	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/llm"
	"insurance-assistant-be/pkg/store"
)

// Detection methods.
const (
	MethodPattern = "pattern"
	MethodHybrid  = "hybrid"
	MethodAI      = "ai"
)

const (
	fastPathThreshold = 0.65
	hybridThreshold   = 0.4
	aiTopicMargin     = 0.2
	failureConfidence = 0.3
	confidenceCap     = 0.95
)

// Result is the outcome of classifying one message.
type Result struct {
	Topic        string  `json:"topic"`
	Confidence   float64 `json:"confidence"`
	Method       string  `json:"method"`
	Urgency      string  `json:"urgency"`
	TopicChanged bool    `json:"topic_changed"`
}

// Classifier scores messages against the pattern tables and escalates
// uncertain ones to the model.
type Classifier struct {
	patterns []TopicPatterns
	llm      llm.LLMProvider
	logger   *log.Logger
	timeout  time.Duration
}

func NewClassifier(provider llm.LLMProvider, logger *log.Logger, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{
		patterns: DefaultPatterns(),
		llm:      provider,
		logger:   logger,
		timeout:  timeout,
	}
}

// Classify runs the pattern phase and, depending on confidence and the
// session's switch history, the model-backed escalation tiers. It records the
// topic change on the session as a side effect.
func (c *Classifier) Classify(ctx context.Context, message string, sess *store.SessionContext) Result {
	topic, conf := c.patternScore(message)
	res := Result{
		Topic:      topic,
		Confidence: conf,
		Method:     MethodPattern,
		Urgency:    DetectUrgency(message),
	}

	switch {
	case conf >= fastPathThreshold && sess.ContextSwitchCount == 0:
		// Fast path, no model round trip.
	case conf >= hybridThreshold || sess.ContextSwitchCount >= 1:
		res = c.hybrid(ctx, message, sess, res)
	default:
		res = c.aiAlone(ctx, message, sess, res)
	}

	res.TopicChanged = contextswitch.HasTopicChanged(res.Topic, sess)
	if res.TopicChanged {
		sess.RecordTopicChange(res.Topic)
	}

	if c.logger != nil {
		c.logger.Printf("[INTENT] session=%s topic=%s confidence=%.2f method=%s urgency=%s changed=%v",
			sess.Id, res.Topic, res.Confidence, res.Method, res.Urgency, res.TopicChanged)
	}
	return res
}

// hybrid lets the model second-guess the pattern result. The model's topic
// wins only with a clear confidence margin; a non-general pattern topic is
// otherwise kept.
func (c *Classifier) hybrid(ctx context.Context, message string, sess *store.SessionContext, pattern Result) Result {
	aiTopic, aiConf, err := c.aiClassify(ctx, message, sess)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[INTENT] hybrid escalation failed for session=%s: %v", sess.Id, err)
		}
		return Result{Topic: store.FlowGeneral, Confidence: failureConfidence, Method: MethodHybrid, Urgency: pattern.Urgency}
	}

	topic := pattern.Topic
	if aiConf > pattern.Confidence+aiTopicMargin || topic == store.FlowGeneral {
		topic = aiTopic
	}
	conf := pattern.Confidence
	if aiConf > conf {
		conf = aiConf
	}
	return Result{Topic: topic, Confidence: conf, Method: MethodHybrid, Urgency: pattern.Urgency}
}

func (c *Classifier) aiAlone(ctx context.Context, message string, sess *store.SessionContext, pattern Result) Result {
	aiTopic, aiConf, err := c.aiClassify(ctx, message, sess)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[INTENT] ai classification failed for session=%s: %v", sess.Id, err)
		}
		return Result{Topic: store.FlowGeneral, Confidence: failureConfidence, Method: MethodAI, Urgency: pattern.Urgency}
	}
	return Result{Topic: aiTopic, Confidence: aiConf, Method: MethodAI, Urgency: pattern.Urgency}
}

// aiClassify asks the model for "topic|confidence", passing the last three
// turns and the recent topic history as context.
func (c *Classifier) aiClassify(ctx context.Context, message string, sess *store.SessionContext) (string, float64, error) {
	var b strings.Builder
	b.WriteString("Du klassifizierst Kundennachrichten eines Schweizer Versicherungs-Assistenten.\n")
	b.WriteString("Mögliche Themen: general, appointment, quote, document_upload, faq, mixed_intent.\n")

	if len(sess.TopicHistory) > 0 {
		recent := sess.TopicHistory
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		b.WriteString("Bisherige Themen: " + strings.Join(recent, ", ") + "\n")
	}
	for _, m := range sess.LastMessages(3) {
		fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Text)
	}
	fmt.Fprintf(&b, "Nachricht: %q\n", message)
	b.WriteString("Antworte NUR im Format thema|konfidenz, z.B. quote|0.8")

	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.llm.Generate(genCtx, b.String(), llm.WithTemperature(0.1), llm.WithMaxTokens(20))
	if err != nil {
		return "", 0, err
	}
	return parseAIResult(raw)
}

func parseAIResult(raw string) (string, float64, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "|", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed classification %q", raw)
	}
	topic := strings.ToLower(strings.TrimSpace(parts[0]))
	switch topic {
	case store.FlowGeneral, store.FlowAppointment, store.FlowQuote,
		store.FlowDocumentUpload, store.FlowFAQ, store.FlowMixedIntent:
	default:
		return "", 0, fmt.Errorf("unknown topic %q", topic)
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed confidence in %q: %w", raw, err)
	}
	return topic, clamp(conf), nil
}

// patternScore is the deterministic phase: per-topic matcher counts plus the
// bonus rules, then the special cases for split questions, negation and
// single-word messages.
func (c *Classifier) patternScore(message string) (string, float64) {
	norm := " " + strings.ToLower(strings.TrimSpace(message)) + " "

	topic, conf, matched := c.scoreTopics(norm, message)

	// Multiple actionable topics joined by a conjunction and not negated is a
	// mixed intent.
	negated := containsAnyKeyword(norm, negationMarkers)
	if len(matched) >= 2 && containsAnyKeyword(norm, conjunctionWords) && !negated {
		return store.FlowMixedIntent, confidenceCap
	}

	// "question? action." shape: re-score the trailing action clause and let
	// it win at 90% weight.
	if idx := strings.Index(message, "?"); idx >= 0 && idx < len(message)-1 {
		tail := strings.TrimSpace(message[idx+1:])
		if tail != "" {
			tailNorm := " " + strings.ToLower(tail) + " "
			tailTopic, tailConf, _ := c.scoreTopics(tailNorm, tail)
			if tailConf*0.9 > conf {
				topic, conf = tailTopic, tailConf*0.9
			}
		}
	}

	if negated {
		if containsAnyKeyword(norm, justAskingPhrases) {
			return store.FlowFAQ, 0.8
		}
		if topic != store.FlowFAQ {
			conf *= 0.2
		}
	}

	// A single word carries too little signal unless it scored decisively.
	if len(strings.Fields(message)) == 1 && conf < 0.8 && conf > 0.1 {
		conf = 0.1
	}

	return topic, clamp(conf)
}

// scoreTopics applies the matcher tables and bonuses; it returns the best
// topic, its confidence and the set of actionable topics that matched.
func (c *Classifier) scoreTopics(norm, original string) (string, float64, []string) {
	bestTopic := store.FlowGeneral
	bestConf := 0.1
	var matched []string

	hasCost := containsAnyKeyword(norm, costWords)
	hasAction := containsAnyKeyword(norm, actionVerbs)
	hasQuestion := containsAnyKeyword(norm, questionIndicators)

	for _, tp := range c.patterns {
		count := 0
		for _, m := range tp.Matchers {
			if m(norm) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		if actionableTopics[tp.Topic] {
			matched = append(matched, tp.Topic)
		}

		conf := 0.2 + 0.25*float64(count)
		switch tp.Topic {
		case store.FlowQuote:
			if hasAction {
				conf += 0.15
			}
			// Price questions about a product belong to faq, not the
			// purchase flow.
			if !hasCost {
				switch products := flow.MatchProducts(original); {
				case len(products) >= 2:
					conf += 0.4
				case len(products) == 1:
					conf += 0.2
				}
			}
		case store.FlowAppointment:
			if hasAction {
				conf += 0.15
			}
			if containsAnyKeyword(norm, appointmentVerbs) {
				conf += 0.25
			}
		case store.FlowDocumentUpload:
			if hasAction {
				conf += 0.15
			}
		case store.FlowFAQ:
			if hasQuestion {
				switch hits := countKeywords(norm, domainVocab); {
				case hits >= 2:
					conf += 0.4
				case hits == 1:
					conf += 0.3
				}
				if hasCost || containsAnyKeyword(norm, legalWords) {
					conf += 0.3
				}
			}
		}

		if conf > confidenceCap {
			conf = confidenceCap
		}
		if conf > bestConf {
			bestTopic, bestConf = tp.Topic, conf
		}
	}

	return bestTopic, bestConf, matched
}

// DetectUrgency scans for emergency vocabulary, independent of topic.
func DetectUrgency(message string) string {
	norm := strings.ToLower(message)
	if containsAnyKeyword(norm, emergencyHighWords) {
		return store.UrgencyHigh
	}
	if containsAnyKeyword(norm, emergencyMediumWords) {
		return store.UrgencyMedium
	}
	return store.UrgencyLow
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
