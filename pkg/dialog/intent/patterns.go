package intent

import "strings"

// Matcher reports whether a normalized (lowercased) message matches.
type Matcher func(text string) bool

// ContainsAny builds a matcher that fires when any keyword occurs as a
// substring.
func ContainsAny(keywords ...string) Matcher {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// TopicPatterns is the matcher list of one topic. Per-topic confidence is
// 0.2 base plus 0.25 per matcher that fires, before bonuses.
type TopicPatterns struct {
	Topic    string
	Matchers []Matcher
}

// DefaultPatterns returns the bilingual (German/English) matcher tables.
// Order matters: score ties resolve to the earlier topic.
func DefaultPatterns() []TopicPatterns {
	return []TopicPatterns{
		{
			Topic: "appointment",
			Matchers: []Matcher{
				ContainsAny("termin", "appointment", "beratungstermin", "meeting", "besprechung"),
				ContainsAny("vorbeikommen", "treffen", "rückruf", "rueckruf", "callback", "anrufen"),
			},
		},
		{
			Topic: "quote",
			Matchers: []Matcher{
				ContainsAny("offerte", "quote", "angebot", "offer"),
				ContainsAny("abschliessen", "abschließen", "neue versicherung", "versicherung wechseln", "new insurance"),
			},
		},
		{
			Topic: "document_upload",
			Matchers: []Matcher{
				ContainsAny("dokument", "document", "hochladen", "upload", "einreichen", "datei"),
				ContainsAny("foto", "scan", "anhang", "attachment", "beilegen", "formular senden"),
			},
		},
		{
			Topic: "faq",
			Matchers: []Matcher{
				ContainsAny(questionIndicators...),
				ContainsAny("bedeutet", "heisst das", "heißt das", "erklären", "erklaeren", "explain", "information"),
			},
		},
		{
			Topic: "general",
			Matchers: []Matcher{
				ContainsAny("hallo", "hello", "hi ", "guten tag", "grüezi", "gruezi", "guten morgen"),
				ContainsAny("danke", "thanks", "merci", "tschüss", "tschuess", "goodbye", "auf wiedersehen"),
			},
		},
	}
}

// actionableTopics are the flows a message can concretely kick off. Only they
// count toward mixed-intent detection.
var actionableTopics = map[string]bool{
	"appointment":     true,
	"quote":           true,
	"document_upload": true,
}

var questionIndicators = []string{
	"?", "was ", "wie ", "warum", "wieso", "welche", "wann ", "wo ",
	"what", "how", "why", "which", "when", "where",
}

var actionVerbs = []string{
	"möchte", "moechte", "will", "brauche", "suche", "hätte gern", "haette gern",
	"want", "need", "looking for", "would like",
}

var appointmentVerbs = []string{
	"vereinbaren", "buchen", "reservieren", "abmachen", "book", "schedule", "arrange",
}

var negationMarkers = []string{
	"kein", "keine", "keinen", "nicht", "nein", "niemals", "nie",
	"not", "don't", "dont", "no thanks",
}

var justAskingPhrases = []string{
	"nur eine frage", "nur fragen", "nur wissen", "nur informieren",
	"nur interessehalber", "just asking", "just a question", "just want information",
	"just want to know",
}

var conjunctionWords = []string{
	"und", "and", "sowie", "ausserdem", "außerdem", "zudem", "auch noch",
}

var costWords = []string{
	"kosten", "kostet", "cost", "preis", "price", "teuer", "wie viel", "how much",
	"prämie", "praemie", "premium",
}

var legalWords = []string{
	"gesetz", "obligatorisch", "pflicht", "legal", "vorgeschrieben", "mandatory",
	"kündigungsfrist", "kuendigungsfrist", "frist",
}

var domainVocab = []string{
	"versicherung", "insurance", "franchise", "selbstbehalt", "deckung", "coverage",
	"police", "kasko", "hausrat", "haftpflicht", "krankenkasse", "grundversicherung",
	"zusatzversicherung", "kündigung", "kuendigung", "travel", "reise",
}

var emergencyHighWords = []string{
	"notfall", "emergency", "dringend", "urgent", "sofort", "unfall", "accident",
	"immediately", "asap",
}

var emergencyMediumWords = []string{
	"bald", "schnell", "zeitnah", "diese woche", "soon", "quickly", "rasch",
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
