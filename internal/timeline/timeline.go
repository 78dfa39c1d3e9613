package timeline

import (
	"fmt"

	"github.com/rezapratama/dialog2video/internal/script"
)

// Entry is one dialogue line after parsing and synthesis: clean text,
// its emotion events, and the audio produced for it
type Entry struct {
	Text          string
	Language      string
	Events        []script.Event
	AudioPath     string
	AudioDuration float64
}

// Turn is an entry bound to its place on the final timeline
type Turn struct {
	Index         int
	Text          string
	Language      string
	Events        []script.Event
	Speaker       int // 1 or 2
	AudioPath     string
	AudioDuration float64
	Duration      float64 // AudioDuration plus the trailing pause
	Start         float64 // Offset within the final video
}

// End returns where the turn finishes on the final timeline
func (t Turn) End() float64 {
	return t.Start + t.Duration
}

// SpeakerFor maps a turn index onto one of the two hosts. Turns come
// in pairs: indices 0,1 mod 4 belong to host 1, indices 2,3 to host 2,
// so each host speaks twice before yielding.
func SpeakerFor(index int) int {
	if index%4 <= 1 {
		return 1
	}
	return 2
}

// Build lays entries out back to back: every turn lasts its audio plus
// the pause and starts exactly where the previous one ended. An entry
// without a positive audio duration aborts the build.
func Build(entries []Entry, pause float64) ([]Turn, error) {
	turns := make([]Turn, 0, len(entries))

	start := 0.0
	for i, e := range entries {
		if e.AudioDuration <= 0 {
			return nil, fmt.Errorf("turn %d: audio duration %.3f is not positive", i, e.AudioDuration)
		}

		turn := Turn{
			Index:         i,
			Text:          e.Text,
			Language:      e.Language,
			Events:        e.Events,
			Speaker:       SpeakerFor(i),
			AudioPath:     e.AudioPath,
			AudioDuration: e.AudioDuration,
			Duration:      e.AudioDuration + pause,
			Start:         start,
		}
		turns = append(turns, turn)
		start = turn.End()
	}

	return turns, nil
}

// TotalDuration is the length of the full laid-out timeline
func TotalDuration(turns []Turn) float64 {
	if len(turns) == 0 {
		return 0
	}
	return turns[len(turns)-1].End()
}
