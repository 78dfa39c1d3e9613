package script

import (
	"testing"
)

func TestParseMarkers(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantText  string
		wantEmots []Emotion
	}{
		{
			name:      "no markers",
			text:      "Just a plain line.",
			wantText:  "Just a plain line.",
			wantEmots: nil,
		},
		{
			name:      "single marker",
			text:      "Hello! [excited] Wohoo, I'm so happy!",
			wantText:  "Hello! Wohoo, I'm so happy!",
			wantEmots: []Emotion{EmotionExcited},
		},
		{
			name:      "duplicate markers collapse to one event",
			text:      "Hi [laugh] there [laugh]!",
			wantText:  "Hi there !",
			wantEmots: []Emotion{EmotionLaugh},
		},
		{
			name:      "events follow vocabulary order, not text order",
			text:      "[sad] then [laugh] then [surprise]",
			wantText:  "then then",
			wantEmots: []Emotion{EmotionLaugh, EmotionSurprise, EmotionSad},
		},
		{
			name:      "unknown bracketed token stays",
			text:      "Hello [wink] world [angry]!",
			wantText:  "Hello [wink] world !",
			wantEmots: []Emotion{EmotionAngry},
		},
		{
			name:      "marker at start",
			text:      "[confused] Wait, what?",
			wantText:  "Wait, what?",
			wantEmots: []Emotion{EmotionConfused},
		},
		{
			name:      "all six markers",
			text:      "[confused][angry][excited][sad][surprise][laugh] everything at once",
			wantText:  "everything at once",
			wantEmots: []Emotion{EmotionLaugh, EmotionSurprise, EmotionSad, EmotionExcited, EmotionAngry, EmotionConfused},
		},
		{
			name:      "empty text",
			text:      "",
			wantText:  "",
			wantEmots: nil,
		},
		{
			name:      "marker only",
			text:      "[laugh]",
			wantText:  "",
			wantEmots: []Emotion{EmotionLaugh},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotEvents := Parse(tt.text)

			if gotText != tt.wantText {
				t.Errorf("Expected text %q, got %q", tt.wantText, gotText)
			}

			if len(gotEvents) != len(tt.wantEmots) {
				t.Fatalf("Expected %d events, got %d (%v)", len(tt.wantEmots), len(gotEvents), gotEvents)
			}

			for i, ev := range gotEvents {
				if ev.Emotion != tt.wantEmots[i] {
					t.Errorf("Event %d: expected %s, got %s", i, tt.wantEmots[i], ev.Emotion)
				}
				if ev.Time != 0.5 {
					t.Errorf("Event %d: expected trigger at 0.5s, got %f", i, ev.Time)
				}
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	// Running Parse over already-cleaned text must change nothing
	clean, _ := Parse("Hi [laugh] there [surprise]!")

	again, events := Parse(clean)
	if again != clean {
		t.Errorf("Parse not idempotent: %q became %q", clean, again)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events on cleaned text, got %v", events)
	}
}
