package flow

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Swiss mobile/landline: +41 79 123 45 67, 0041791234567, 079 123 45 67,
// 044 123 45 67 (separators optional).
var phoneRe = regexp.MustCompile(`(?:\+41|0041|0)\s?[1-9]\d(?:[\s.\-]?\d{3})(?:[\s.\-]?\d{2}){2}`)

var hourRe = regexp.MustCompile(`(\d{1,2})(?:[:.](\d{2}))?\s*(?:uhr|h\b|am\b|pm\b)`)
var umHourRe = regexp.MustCompile(`um\s+(\d{1,2})`)

var affirmativeWords = []string{
	"ja", "yes", "genau", "korrekt", "richtig", "stimmt", "ok", "okay",
	"jawohl", "gerne", "passt", "correct", "yep", "sicher", "einverstanden",
}

var negativeWords = []string{
	"nein", "no", "falsch", "nicht korrekt", "nicht richtig", "stimmt nicht",
	"nope", "ändern", "aendern", "change", "wrong",
}

var namePrefixes = []string{
	"ich heisse", "ich heiße", "mein name ist", "my name is", "i am", "i'm",
	"ich bin", "name:",
}

var weekdays = map[string]string{
	"montag": "Montag", "monday": "Montag",
	"dienstag": "Dienstag", "tuesday": "Dienstag",
	"mittwoch": "Mittwoch", "wednesday": "Mittwoch",
	"donnerstag": "Donnerstag", "thursday": "Donnerstag",
	"freitag": "Freitag", "friday": "Freitag",
	"samstag": "Samstag", "saturday": "Samstag",
	"sonntag": "Sonntag", "sunday": "Sonntag",
	"morgen": "morgen", "tomorrow": "morgen",
	"übermorgen": "übermorgen", "uebermorgen": "übermorgen",
}

// Canonical product names are the German insurance lines used throughout the
// collected data and the record store.
var productKeywords = []struct {
	Canonical string
	Keywords  []string
}{
	{"krankenversicherung", []string{"krankenversicherung", "krankenkasse", "health", "kranken"}},
	{"hausratversicherung", []string{"hausrat", "household"}},
	{"haftpflichtversicherung", []string{"haftpflicht", "liability"}},
	{"autoversicherung", []string{"autoversicherung", "car insurance", "fahrzeug", "kasko", "motorrad"}},
	{"reiseversicherung", []string{"reiseversicherung", "travel", "reise"}},
	{"lebensversicherung", []string{"lebensversicherung", "life insurance", "todesfall"}},
}

var appointmentTypeKeywords = []struct {
	Canonical string
	Keywords  []string
}{
	{"beratung", []string{"beratung", "consult", "besprechung", "advice", "beraten"}},
	{"schadenmeldung", []string{"schaden", "claim", "unfall", "damage"}},
	{"offerten_besprechung", []string{"offerte", "quote", "angebot"}},
	{"police_anpassung", []string{"police", "änderung", "aenderung", "policy", "anpassung", "vertrag"}},
}

var documentTypeKeywords = []struct {
	Canonical string
	Keywords  []string
}{
	{"unfallbericht", []string{"unfall", "accident", "bericht"}},
	{"rechnung", []string{"rechnung", "invoice", "beleg", "quittung", "receipt"}},
	{"police", []string{"police", "policy", "vertrag", "contract"}},
	{"formular", []string{"formular", "form", "antrag"}},
}

// ExtractEmail pulls the first syntactically valid address out of free text.
func ExtractEmail(text string) (string, bool) {
	match := emailRe.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// ExtractPhone pulls the first recognizable Swiss phone number out of free text.
func ExtractPhone(text string) (string, bool) {
	match := phoneRe.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// ExtractName strips polite lead-ins ("ich heisse", "my name is") and returns
// the remainder as the name. Names are kept as free text, only sanity-checked.
func ExtractName(text string) (string, bool) {
	name := strings.TrimSpace(text)
	lower := strings.ToLower(name)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	name = strings.Trim(name, ".!,;:")
	if len([]rune(name)) < 2 || !containsLetter(name) {
		return "", false
	}
	return name, true
}

// ExtractPreferredDate maps free text onto weekday/hour tokens. Unmatched
// input is retained verbatim rather than rejected.
func ExtractPreferredDate(text string) (string, bool) {
	norm := strings.ToLower(text)

	var parts []string
	for key, canonical := range weekdays {
		if strings.Contains(norm, key) {
			parts = append(parts, canonical)
			break
		}
	}

	if m := hourRe.FindStringSubmatch(norm); m != nil {
		hour := m[1]
		if m[2] != "" {
			hour += ":" + m[2]
		}
		parts = append(parts, hour+" Uhr")
	} else if m := umHourRe.FindStringSubmatch(norm); m != nil {
		parts = append(parts, m[1]+" Uhr")
	}

	if len(parts) == 0 {
		return strings.TrimSpace(text), false
	}
	return strings.Join(parts, ", "), true
}

// MatchProduct maps free text to a canonical insurance line.
func MatchProduct(text string) (string, bool) {
	norm := strings.ToLower(text)
	for _, p := range productKeywords {
		for _, kw := range p.Keywords {
			if strings.Contains(norm, kw) {
				return p.Canonical, true
			}
		}
	}
	return "", false
}

// MatchProducts returns every canonical insurance line named in the text.
func MatchProducts(text string) []string {
	norm := strings.ToLower(text)
	var matched []string
	for _, p := range productKeywords {
		for _, kw := range p.Keywords {
			if strings.Contains(norm, kw) {
				matched = append(matched, p.Canonical)
				break
			}
		}
	}
	return matched
}

// MatchAppointmentType maps free text to a known appointment category.
func MatchAppointmentType(text string) (string, bool) {
	return matchCanonical(text, appointmentTypeKeywords)
}

// MatchDocumentType maps free text to a known document category.
func MatchDocumentType(text string) (string, bool) {
	return matchCanonical(text, documentTypeKeywords)
}

func matchCanonical(text string, table []struct {
	Canonical string
	Keywords  []string
}) (string, bool) {
	norm := strings.ToLower(text)
	for _, entry := range table {
		for _, kw := range entry.Keywords {
			if strings.Contains(norm, kw) {
				return entry.Canonical, true
			}
		}
	}
	return "", false
}

// IsAffirmative reports whether the message reads as a yes.
func IsAffirmative(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	if IsNegative(norm) {
		return false
	}
	for _, w := range affirmativeWords {
		if containsWord(norm, w) {
			return true
		}
	}
	return false
}

// IsNegative reports whether the message reads as a no.
func IsNegative(text string) bool {
	norm := strings.ToLower(strings.TrimSpace(text))
	for _, w := range negativeWords {
		if containsWord(norm, w) {
			return true
		}
	}
	return false
}

// containsWord matches on word boundaries to keep "no" from firing inside
// "notieren" or "ok" inside "okkupiert".
func containsWord(text, word string) bool {
	if strings.Contains(word, " ") {
		return strings.Contains(text, word)
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';', ':':
			return ' '
		}
		return r
	}, text)
	return strings.Contains(" "+cleaned+" ", " "+word+" ")
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127 {
			return true
		}
	}
	return false
}
