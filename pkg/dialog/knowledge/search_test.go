package knowledge

import (
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	s := NewSearcher(DefaultBase(), nil)

	tests := []struct {
		name         string
		message      string
		wantFound    bool
		wantCategory string
		wantSubcat   string
	}{
		{
			name:         "franchise question",
			message:      "Was ist die Franchise?",
			wantFound:    true,
			wantCategory: "krankenversicherung",
			wantSubcat:   "franchise",
		},
		{
			name:         "bare franchise keyword",
			message:      "Franchise",
			wantFound:    true,
			wantCategory: "krankenversicherung",
			wantSubcat:   "franchise",
		},
		{
			name:         "travel insurance cost in english",
			message:      "What does travel insurance cost?",
			wantFound:    true,
			wantCategory: "reiseversicherung",
			wantSubcat:   "kosten",
		},
		{
			name:         "cancellation deadline",
			message:      "Bis wann kann ich meine Krankenkasse kündigen?",
			wantFound:    true,
			wantCategory: "kuendigung",
		},
		{
			name:      "off-topic weather",
			message:   "Wie wird das Wetter morgen?",
			wantFound: false,
		},
		{
			name:      "unrelated chit chat",
			message:   "Erzähl mir einen Witz",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Search(tt.message)
			if got.Found != tt.wantFound {
				t.Fatalf("Search(%q).Found = %v (confidence %.2f), want %v",
					tt.message, got.Found, got.Confidence, tt.wantFound)
			}
			if !tt.wantFound {
				if got.Answer != "" {
					t.Errorf("miss must not carry an answer, got %q", got.Answer)
				}
				return
			}
			if got.Category != tt.wantCategory {
				t.Errorf("category = %s, want %s", got.Category, tt.wantCategory)
			}
			if tt.wantSubcat != "" && got.Subcategory != tt.wantSubcat {
				t.Errorf("subcategory = %s, want %s", got.Subcategory, tt.wantSubcat)
			}
			if got.Answer == "" {
				t.Error("hit must carry an answer")
			}
			if got.Confidence < FoundThreshold || got.Confidence > 1 {
				t.Errorf("confidence = %.2f, want within [%.2f, 1]", got.Confidence, FoundThreshold)
			}
		})
	}
}

func TestSearchTravelAnswerMentionsTravel(t *testing.T) {
	s := NewSearcher(DefaultBase(), nil)
	got := s.Search("What does travel insurance cost?")
	if !got.Found {
		t.Fatal("expected a knowledge hit")
	}
	if !strings.Contains(got.Answer, "Reiseversicherung") {
		t.Errorf("answer %q should describe travel insurance", got.Answer)
	}
}
