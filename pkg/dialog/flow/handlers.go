package flow

import (
	"context"
	"fmt"
	"strings"

	"insurance-assistant-be/pkg/store"
)

// Collected data keys. Name, email and phone persist across context switches.
const (
	DataName            = "name"
	DataEmail           = "email"
	DataPhone           = "phone"
	DataAppointmentType = "appointmentType"
	DataPreferredDate   = "preferredDate"
	DataInsuranceType   = "insuranceType"
	DataDocumentType    = "documentType"
)

var productLabels = map[string]string{
	"krankenversicherung":     "Krankenversicherung",
	"hausratversicherung":     "Hausratversicherung",
	"haftpflichtversicherung": "Haftpflichtversicherung",
	"autoversicherung":        "Autoversicherung",
	"reiseversicherung":       "Reiseversicherung",
	"lebensversicherung":      "Lebensversicherung",
}

// ProductOptions returns the selection menu for quote requests.
func ProductOptions() []string {
	return []string{
		"Krankenversicherung",
		"Hausratversicherung",
		"Haftpflichtversicherung",
		"Autoversicherung",
		"Reiseversicherung",
	}
}

var summaryLabels = []struct {
	Key   string
	Label string
}{
	{DataName, "Name"},
	{DataEmail, "E-Mail"},
	{DataPhone, "Telefon"},
	{DataInsuranceType, "Versicherung"},
	{DataAppointmentType, "Terminart"},
	{DataPreferredDate, "Wunschtermin"},
	{DataDocumentType, "Dokumenttyp"},
}

func (e *Engine) registerDefaults() {
	e.RegisterFlow(store.FlowAppointment, []string{
		StepGreeting, StepCollectName, StepCollectEmail, StepCollectPhone,
		StepAppointmentType, StepPreferredDate, StepConfirm,
	})
	e.RegisterFlow(store.FlowQuote, []string{
		StepInsuranceType, StepCollectName, StepCollectEmail, StepCollectPhone,
		StepConfirmData, StepFinalize,
	})
	e.RegisterFlow(store.FlowDocumentUpload, []string{
		StepUploadRequest, StepCollectName, StepCollectEmail, StepDocumentType, StepConfirm,
	})

	// Appointment
	e.RegisterStep(store.FlowAppointment, StepGreeting, e.appointmentGreeting)
	e.RegisterStep(store.FlowAppointment, StepCollectName,
		e.collectName(func(name string) string {
			return fmt.Sprintf("Danke, %s. Wie lautet Ihre E-Mail-Adresse?", name)
		}))
	e.RegisterStep(store.FlowAppointment, StepCollectEmail,
		e.collectEmail("Danke. Unter welcher Telefonnummer erreichen wir Sie?"))
	e.RegisterStep(store.FlowAppointment, StepCollectPhone,
		e.collectPhone(func(sess *store.SessionContext) string {
			return "Worum geht es bei dem Termin? (z.B. Beratung, Schadenmeldung, Offerte besprechen)"
		}))
	e.RegisterStep(store.FlowAppointment, StepAppointmentType, e.appointmentType)
	e.RegisterStep(store.FlowAppointment, StepPreferredDate, e.preferredDate)
	e.RegisterStep(store.FlowAppointment, StepConfirm, e.terminalConfirm(RecordKindAppointment))

	// Quote
	e.RegisterStep(store.FlowQuote, StepInsuranceType, e.insuranceType)
	e.RegisterStep(store.FlowQuote, StepCollectName,
		e.collectName(func(name string) string {
			return fmt.Sprintf("Danke, %s. Wie lautet Ihre E-Mail-Adresse für die Offerte?", name)
		}))
	e.RegisterStep(store.FlowQuote, StepCollectEmail,
		e.collectEmail("Danke. Unter welcher Telefonnummer dürfen wir Sie für Rückfragen erreichen?"))
	e.RegisterStep(store.FlowQuote, StepCollectPhone,
		e.collectPhone(func(sess *store.SessionContext) string {
			return "Ich habe folgende Angaben notiert:\n" + e.summary(sess) +
				"\nStimmen diese Angaben? (Ja/Nein)"
		}))
	e.RegisterStep(store.FlowQuote, StepConfirmData, e.quoteConfirmData)
	e.RegisterStep(store.FlowQuote, StepFinalize, e.terminalConfirm(RecordKindQuote))

	// Document upload
	e.RegisterStep(store.FlowDocumentUpload, StepUploadRequest, e.uploadRequest)
	e.RegisterStep(store.FlowDocumentUpload, StepCollectName,
		e.collectName(func(name string) string {
			return fmt.Sprintf("Danke, %s. Wie lautet Ihre E-Mail-Adresse, damit wir den Eingang bestätigen können?", name)
		}))
	e.RegisterStep(store.FlowDocumentUpload, StepCollectEmail,
		e.collectEmail("Danke. Um was für ein Dokument handelt es sich? (z.B. Unfallbericht, Rechnung, Police)"))
	e.RegisterStep(store.FlowDocumentUpload, StepDocumentType, e.documentType)
	e.RegisterStep(store.FlowDocumentUpload, StepConfirm, e.terminalConfirm(RecordKindDocument))
}

// --- Shared collect steps ---

func (e *Engine) collectName(success func(name string) string) HandlerFunc {
	return func(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
		name, ok := ExtractName(message)
		if !ok {
			return &Response{
				Text:     "Das habe ich leider nicht als Namen erkannt. Wie heissen Sie?",
				NextStep: StepCollectName,
			}, nil
		}
		sess.CollectedData[DataName] = name
		next := e.advance(sess)
		return &Response{Text: success(name), NextStep: next}, nil
	}
}

func (e *Engine) collectEmail(success string) HandlerFunc {
	return func(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
		email, ok := ExtractEmail(message)
		if !ok {
			return &Response{
				Text: "Diese E-Mail-Adresse scheint nicht gültig zu sein. " +
					"Bitte geben Sie sie im Format name@beispiel.ch an.",
				NextStep: StepCollectEmail,
			}, nil
		}
		sess.CollectedData[DataEmail] = email
		next := e.advance(sess)
		return &Response{Text: success, NextStep: next}, nil
	}
}

func (e *Engine) collectPhone(success func(sess *store.SessionContext) string) HandlerFunc {
	return func(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
		phone, ok := ExtractPhone(message)
		if !ok {
			return &Response{
				Text: "Diese Telefonnummer habe ich leider nicht erkannt. " +
					"Bitte geben Sie eine Schweizer Nummer an (z.B. 079 123 45 67).",
				NextStep: StepCollectPhone,
			}, nil
		}
		sess.CollectedData[DataPhone] = phone
		next := e.advance(sess)
		return &Response{Text: success(sess), NextStep: next}, nil
	}
}

// --- Appointment steps ---

func (e *Engine) appointmentGreeting(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	next := e.advance(sess)
	text := "Gerne vereinbare ich einen Termin für Sie."
	if sess.Urgency == store.UrgencyHigh {
		text += " Ich sehe, es ist dringend. Wir kümmern uns so rasch wie möglich darum."
	}
	text += " Wie heissen Sie?"
	return &Response{Text: text, NextStep: next}, nil
}

func (e *Engine) appointmentType(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	kind, ok := MatchAppointmentType(message)
	if !ok {
		// Unmatched input is kept as free text, not rejected.
		kind = strings.TrimSpace(message)
	}
	sess.CollectedData[DataAppointmentType] = kind
	next := e.advance(sess)
	return &Response{
		Text:     "Wann passt es Ihnen am besten? Nennen Sie mir einen Wochentag und eine Uhrzeit.",
		NextStep: next,
	}, nil
}

func (e *Engine) preferredDate(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	date, _ := ExtractPreferredDate(message)
	sess.CollectedData[DataPreferredDate] = date
	next := e.advance(sess)
	return &Response{
		Text: "Ich habe folgende Angaben notiert:\n" + e.summary(sess) +
			"\nDarf ich den Termin so anfragen? (Ja/Nein)",
		NextStep: next,
	}, nil
}

// --- Quote steps ---

func (e *Engine) insuranceType(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	product, ok := MatchProduct(message)
	if !ok {
		norm := strings.ToLower(message)
		if containsAnyOf(norm, "offerte", "quote", "angebot", "offer", "versicherung", "insurance") {
			// Generic quote request without a named line: surface the menu.
			return &Response{
				Text:     "Gerne! Für welche Versicherung möchten Sie eine Offerte?",
				Options:  ProductOptions(),
				NextStep: StepInsuranceType,
			}, nil
		}
		product = strings.TrimSpace(message)
	}
	sess.CollectedData[DataInsuranceType] = product
	next := e.advance(sess)

	label := productLabels[product]
	if label == "" {
		label = product
	}
	return &Response{
		Text:     fmt.Sprintf("Gerne erstelle ich Ihnen eine Offerte für die %s. Wie heissen Sie?", label),
		NextStep: next,
	}, nil
}

func (e *Engine) quoteConfirmData(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	switch {
	case IsNegative(message):
		sess.StepInFlow = e.StepIndex(store.FlowQuote, StepCollectName)
		sess.CollectedData = make(map[string]string)
		return &Response{
			Text:     "Alles klar, beginnen wir nochmals von vorne. Wie heissen Sie?",
			NextStep: StepCollectName,
		}, nil
	case IsAffirmative(message):
		next := e.advance(sess)
		return &Response{
			Text:     "Super. Darf ich die Offerten-Anfrage verbindlich absenden? (Ja/Nein)",
			NextStep: next,
		}, nil
	default:
		return &Response{
			Text: "Stimmen diese Angaben? Bitte antworten Sie mit Ja oder Nein.\n" + e.summary(sess),
			NextStep: StepConfirmData,
		}, nil
	}
}

// --- Document steps ---

func (e *Engine) uploadRequest(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	next := e.advance(sess)
	return &Response{
		Text: "Gerne nehme ich Ihr Dokument entgegen. Sie können die Datei über das Büroklammer-Symbol hochladen. " +
			"Damit wir die Einreichung zuordnen können: Wie heissen Sie?",
		NextStep: next,
		UIHints:  map[string]interface{}{"showUpload": true},
	}, nil
}

func (e *Engine) documentType(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
	kind, ok := MatchDocumentType(message)
	if !ok {
		kind = strings.TrimSpace(message)
	}
	sess.CollectedData[DataDocumentType] = kind
	next := e.advance(sess)
	return &Response{
		Text: "Ich habe folgende Angaben notiert:\n" + e.summary(sess) +
			"\nDarf ich die Einreichung so erfassen? (Ja/Nein)",
		NextStep: next,
	}, nil
}

// --- Terminal confirmation ---

// terminalConfirm issues the create-record request on an affirmative answer.
// Negative answers keep the collected data and offer a change sub-menu.
func (e *Engine) terminalConfirm(kind string) HandlerFunc {
	return func(ctx context.Context, message string, sess *store.SessionContext) (*Response, error) {
		switch {
		case IsNegative(message):
			return &Response{
				Text:    "Kein Problem. Was möchten Sie ändern?",
				Options: []string{"Name", "E-Mail", "Telefon", "Angaben zum Anliegen"},
			}, nil
		case IsAffirmative(message):
			return e.complete(ctx, sess, kind)
		default:
			return &Response{
				Text: "Bitte antworten Sie mit Ja oder Nein, damit ich Ihre Anfrage abschliessen kann.",
			}, nil
		}
	}
}

func (e *Engine) summary(sess *store.SessionContext) string {
	var b strings.Builder
	for _, entry := range summaryLabels {
		if v := sess.CollectedData[entry.Key]; v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", entry.Label, v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func containsAnyOf(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
