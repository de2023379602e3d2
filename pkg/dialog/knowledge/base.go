package knowledge

// Subcategory is a single answerable entry inside a category.
type Subcategory struct {
	Name     string
	Keywords []string
	Answer   string
}

// Category groups entries under a shared keyword gate. Matching is
// case-insensitive substring containment; overlap across categories is
// expected and resolved by score.
type Category struct {
	Name          string
	Keywords      []string
	Subcategories []Subcategory
}

// DefaultBase returns the static Swiss insurance knowledge base. Order
// matters: ties resolve to the first category evaluated.
func DefaultBase() []Category {
	return []Category{
		{
			Name: "krankenversicherung",
			Keywords: []string{
				"krankenversicherung", "krankenkasse", "health insurance",
				"grundversicherung", "zusatzversicherung", "franchise",
				"prämie", "praemie", "deductible",
			},
			Subcategories: []Subcategory{
				{
					Name:     "franchise",
					Keywords: []string{"franchise", "selbstbehalt", "deductible", "jahresfranchise"},
					Answer: "Die Franchise ist Ihr jährlicher Selbstbehalt in der Grundversicherung. " +
						"Sie können zwischen CHF 300 und CHF 2'500 pro Jahr wählen. Je höher die Franchise, " +
						"desto tiefer die Monatsprämie. Zusätzlich zahlen Sie 10% Selbstbehalt auf Behandlungskosten " +
						"(max. CHF 700 pro Jahr).",
				},
				{
					Name:     "praemien",
					Keywords: []string{"prämie", "praemie", "premium", "monatlich", "kosten", "teuer", "cost"},
					Answer: "Die Prämien der Grundversicherung hängen von Wohnort, Alter, Franchise und " +
						"Versicherungsmodell ab. Mit einem Hausarzt- oder Telmed-Modell sparen Sie bis zu 20%. " +
						"Gerne erstellen wir Ihnen eine unverbindliche Offerte.",
				},
				{
					Name:     "leistungen",
					Keywords: []string{"leistung", "gedeckt", "coverage", "covered", "arzt", "spital", "medikamente"},
					Answer: "Die Grundversicherung (KVG) deckt Arztbesuche, Spitalaufenthalte in der allgemeinen " +
						"Abteilung Ihres Wohnkantons und kassenpflichtige Medikamente. Zahnbehandlungen, Brillen " +
						"und Alternativmedizin sind nur über Zusatzversicherungen gedeckt.",
				},
			},
		},
		{
			Name: "haftpflichtversicherung",
			Keywords: []string{
				"haftpflicht", "liability", "privathaftpflicht", "haftpflichtversicherung",
			},
			Subcategories: []Subcategory{
				{
					Name:     "deckung",
					Keywords: []string{"deckung", "gedeckt", "schaden", "damage", "coverage", "mietschaden"},
					Answer: "Die Privathaftpflicht deckt Personen- und Sachschäden, die Sie Dritten zufügen, " +
						"inklusive Mietschäden an Ihrer Wohnung. Die übliche Deckungssumme beträgt CHF 5 Millionen.",
				},
				{
					Name:     "kosten",
					Keywords: []string{"kosten", "cost", "preis", "price", "prämie", "praemie"},
					Answer: "Eine Privathaftpflichtversicherung kostet für Einzelpersonen ab ca. CHF 60 pro Jahr, " +
						"für Familien ab ca. CHF 100 pro Jahr. Sie ist freiwillig, aber dringend empfohlen.",
				},
			},
		},
		{
			Name: "hausratversicherung",
			Keywords: []string{
				"hausrat", "hausratversicherung", "household insurance", "einbruch", "diebstahl",
			},
			Subcategories: []Subcategory{
				{
					Name:     "deckung",
					Keywords: []string{"deckung", "gedeckt", "covered", "feuer", "wasser", "diebstahl", "einbruch"},
					Answer: "Die Hausratversicherung deckt Ihr Inventar gegen Feuer, Wasser, Einbruchdiebstahl " +
						"und Glasbruch. Versichert ist der Wiederbeschaffungswert Ihres gesamten Hausrats.",
				},
				{
					Name:     "kosten",
					Keywords: []string{"kosten", "cost", "preis", "price", "prämie", "praemie"},
					Answer: "Die Prämie der Hausratversicherung richtet sich nach der Versicherungssumme. " +
						"Für eine 3-Zimmer-Wohnung rechnen Sie mit ca. CHF 150–250 pro Jahr.",
				},
			},
		},
		{
			Name: "autoversicherung",
			Keywords: []string{
				"autoversicherung", "car insurance", "fahrzeug", "motorfahrzeug", "kasko", "motorrad",
			},
			Subcategories: []Subcategory{
				{
					Name:     "kasko",
					Keywords: []string{"vollkasko", "teilkasko", "kasko", "kollision"},
					Answer: "Teilkasko deckt Diebstahl, Glasbruch, Elementar- und Marderschäden. Vollkasko " +
						"deckt zusätzlich selbstverschuldete Kollisionsschäden am eigenen Fahrzeug. Für Leasing-" +
						"Fahrzeuge ist Vollkasko in der Regel Pflicht.",
				},
				{
					Name:     "kosten",
					Keywords: []string{"kosten", "cost", "preis", "price", "prämie", "praemie"},
					Answer: "Die Autoversicherungsprämie hängt von Fahrzeugtyp, Alter, Wohnort und Schadenfreiheit " +
						"ab. Die obligatorische Haftpflicht beginnt bei ca. CHF 300 pro Jahr.",
				},
			},
		},
		{
			Name: "reiseversicherung",
			Keywords: []string{
				"reiseversicherung", "travel insurance", "reise", "annullation", "auslandreise", "ferien",
			},
			Subcategories: []Subcategory{
				{
					Name:     "kosten",
					Keywords: []string{"kosten", "cost", "preis", "price", "prämie", "praemie", "wie viel", "how much"},
					Answer: "Eine Jahres-Reiseversicherung kostet für Einzelpersonen ab ca. CHF 100, für " +
						"Familien ab ca. CHF 150 pro Jahr. Enthalten sind Annullationskosten und Personen-Assistance " +
						"weltweit.",
				},
				{
					Name:     "deckung",
					Keywords: []string{"deckung", "covered", "gedeckt", "annullation", "gepäck", "luggage", "ausland"},
					Answer: "Die Reiseversicherung deckt Annullationskosten, Reiseabbruch, Personen-Assistance " +
						"und auf Wunsch Gepäck. Heilungskosten im Ausland sind über die Zusatzversicherung der " +
						"Krankenkasse gedeckt.",
				},
			},
		},
		{
			Name: "kuendigung",
			Keywords: []string{
				"kündigung", "kuendigung", "kündigen", "kuendigen", "cancel", "wechseln", "switch", "wechsel",
			},
			Subcategories: []Subcategory{
				{
					Name:     "fristen",
					Keywords: []string{"frist", "termin", "deadline", "bis wann", "when"},
					Answer: "Die Grundversicherung können Sie jährlich per Ende Dezember kündigen; die Kündigung " +
						"muss bis am 30. November beim Versicherer eintreffen. Zusatzversicherungen haben meist " +
						"eine Kündigungsfrist von 3 Monaten auf Ende Jahr.",
				},
				{
					Name:     "vorgehen",
					Keywords: []string{"wie", "how", "vorgehen", "brief", "einschreiben"},
					Answer: "Kündigen Sie schriftlich per Einschreiben und schliessen Sie die neue Versicherung " +
						"vor der Kündigung ab, damit keine Deckungslücke entsteht. Gerne unterstützen wir Sie beim " +
						"Wechsel.",
				},
			},
		},
	}
}
