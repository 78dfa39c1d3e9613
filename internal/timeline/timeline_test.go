package timeline

import (
	"math"
	"testing"
)

func TestSpeakerFor(t *testing.T) {
	// Hosts alternate in pairs: two turns each
	want := []int{1, 1, 2, 2, 1, 1, 2, 2, 1}

	for i, w := range want {
		if got := SpeakerFor(i); got != w {
			t.Errorf("Turn %d: expected speaker %d, got %d", i, w, got)
		}
	}
}

func TestBuild(t *testing.T) {
	entries := []Entry{
		{Text: "one", AudioPath: "dialog_0.mp3", AudioDuration: 3.2},
		{Text: "two", AudioPath: "dialog_1.mp3", AudioDuration: 1.0},
		{Text: "three", AudioPath: "dialog_2.mp3", AudioDuration: 4.75},
	}

	turns, err := Build(entries, 0.5)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(turns))
	}

	for i, turn := range turns {
		wantDur := entries[i].AudioDuration + 0.5
		if math.Abs(turn.Duration-wantDur) > 1e-9 {
			t.Errorf("Turn %d: expected duration %.3f, got %.3f", i, wantDur, turn.Duration)
		}
		if turn.Index != i {
			t.Errorf("Turn %d: index %d", i, turn.Index)
		}
		if turn.Speaker != SpeakerFor(i) {
			t.Errorf("Turn %d: speaker %d", i, turn.Speaker)
		}
	}

	// Turns tile the timeline with no gaps and no overlap
	if turns[0].Start != 0 {
		t.Errorf("First turn starts at %.3f", turns[0].Start)
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Start != turns[i-1].End() {
			t.Errorf("Turn %d starts at %.3f, previous ends at %.3f", i, turns[i].Start, turns[i-1].End())
		}
	}

	wantTotal := (3.2 + 0.5) + (1.0 + 0.5) + (4.75 + 0.5)
	if math.Abs(TotalDuration(turns)-wantTotal) > 1e-9 {
		t.Errorf("Expected total %.3f, got %.3f", wantTotal, TotalDuration(turns))
	}
}

func TestBuildRejectsMissingAudio(t *testing.T) {
	entries := []Entry{
		{Text: "fine", AudioDuration: 2.0},
		{Text: "broken", AudioDuration: 0},
	}

	if _, err := Build(entries, 0.5); err == nil {
		t.Fatal("Expected error for zero-length audio")
	}
}

func TestBuildEmpty(t *testing.T) {
	turns, err := Build(nil, 0.5)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Expected no turns, got %d", len(turns))
	}
	if TotalDuration(turns) != 0 {
		t.Errorf("Expected zero total duration")
	}
}
