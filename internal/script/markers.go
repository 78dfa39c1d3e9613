package script

import "strings"

// Emotion is one entry of the fixed marker vocabulary recognised
// inside dialogue text
type Emotion string

const (
	EmotionLaugh    Emotion = "laugh"
	EmotionSurprise Emotion = "surprise"
	EmotionSad      Emotion = "sad"
	EmotionExcited  Emotion = "excited"
	EmotionAngry    Emotion = "angry"
	EmotionConfused Emotion = "confused"
)

// Vocabulary lists the recognised emotions in canonical scan order.
// Parse emits events in this order, and later events win when
// windows overlap, so the order is part of the contract.
var Vocabulary = []Emotion{
	EmotionLaugh,
	EmotionSurprise,
	EmotionSad,
	EmotionExcited,
	EmotionAngry,
	EmotionConfused,
}

// Event is an emotion trigger within a dialogue turn, anchored at a
// fixed offset from the start of the turn
type Event struct {
	Time    float64
	Emotion Emotion
}

// triggerTime is when an emotion fires relative to the start of its turn
const triggerTime = 0.5

// Parse strips recognised [marker] tokens from a dialogue line and
// returns the cleaned text plus at most one event per emotion.
// Unrecognised bracketed tokens stay in the text untouched. Interior
// whitespace left behind by removed markers is collapsed to single
// spaces and the result is trimmed. Parse never fails: text without
// markers comes back normalised with no events.
func Parse(text string) (string, []Event) {
	var events []Event

	clean := text
	for _, emotion := range Vocabulary {
		marker := "[" + string(emotion) + "]"
		if strings.Contains(clean, marker) {
			events = append(events, Event{Time: triggerTime, Emotion: emotion})
			clean = strings.ReplaceAll(clean, marker, "")
		}
	}

	return strings.Join(strings.Fields(clean), " "), events
}
