package flow

import "testing"

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		valid bool
	}{
		{"bare address", "max@example.ch", "max@example.ch", true},
		{"embedded in sentence", "Meine E-Mail ist max.muster@bluewin.ch danke", "max.muster@bluewin.ch", true},
		{"missing tld", "max@example", "", false},
		{"no address", "keine Ahnung", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEmail(tt.text)
			if ok != tt.valid || got != tt.want {
				t.Errorf("ExtractEmail(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.valid)
			}
		})
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"mobile with spaces", "079 123 45 67", true},
		{"international prefix", "+41 79 123 45 67", true},
		{"zurich landline", "044 123 45 67", true},
		{"embedded", "Sie erreichen mich unter 078 555 12 34 am Abend", true},
		{"too short", "1234", false},
		{"words only", "habe keine Nummer", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractPhone(tt.text)
			if ok != tt.valid {
				t.Errorf("ExtractPhone(%q) ok = %v, want %v", tt.text, ok, tt.valid)
			}
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		valid bool
	}{
		{"Ich heisse Max Muster", "Max Muster", true},
		{"mein name ist Anna Keller", "Anna Keller", true},
		{"Max Muster", "Max Muster", true},
		{"x", "", false},
		{"12345", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractName(tt.text)
		if ok != tt.valid || got != tt.want {
			t.Errorf("ExtractName(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.valid)
		}
	}
}

func TestExtractPreferredDate(t *testing.T) {
	tests := []struct {
		text    string
		want    string
		matched bool
	}{
		{"Montag um 14 Uhr", "Montag, 14 Uhr", true},
		{"am Freitag", "Freitag", true},
		{"um 9", "9 Uhr", true},
		{"irgendwann nächste Woche", "irgendwann nächste Woche", false},
	}
	for _, tt := range tests {
		got, ok := ExtractPreferredDate(tt.text)
		if ok != tt.matched || got != tt.want {
			t.Errorf("ExtractPreferredDate(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.matched)
		}
	}
}

func TestMatchProduct(t *testing.T) {
	tests := []struct {
		text  string
		want  string
		found bool
	}{
		{"eine Offerte für die Krankenkasse", "krankenversicherung", true},
		{"health insurance please", "krankenversicherung", true},
		{"Hausrat", "hausratversicherung", true},
		{"etwas ganz anderes", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchProduct(tt.text)
		if ok != tt.found || got != tt.want {
			t.Errorf("MatchProduct(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.found)
		}
	}
}

func TestMatchProducts(t *testing.T) {
	got := MatchProducts("Offerte für Hausrat und Haftpflicht bitte")
	if len(got) != 2 {
		t.Fatalf("MatchProducts returned %v, want two products", got)
	}
}

func TestAffirmativeNegative(t *testing.T) {
	tests := []struct {
		text string
		yes  bool
		no   bool
	}{
		{"Ja", true, false},
		{"ja, das stimmt", true, false},
		{"Nein", false, true},
		{"nein, bitte ändern", false, true},
		{"stimmt nicht", false, true},
		{"vielleicht", false, false},
		// Word boundary: "ok" inside another word must not fire.
		{"okkupiert", false, false},
	}
	for _, tt := range tests {
		if got := IsAffirmative(tt.text); got != tt.yes {
			t.Errorf("IsAffirmative(%q) = %v, want %v", tt.text, got, tt.yes)
		}
		if got := IsNegative(tt.text); got != tt.no {
			t.Errorf("IsNegative(%q) = %v, want %v", tt.text, got, tt.no)
		}
	}
}
