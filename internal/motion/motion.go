package motion

import (
	"math"

	"github.com/rezapratama/dialog2video/internal/script"
)

// Movement describes how hard and how fast a character sways
type Movement struct {
	Shake     int     // Peak horizontal displacement in pixels
	Frequency float64 // Oscillation speed passed to sin(t*frequency)
}

// Idle is the resting sway a character keeps while not emoting.
// Unknown emotions fall back to it too.
var Idle = Movement{Shake: 5, Frequency: 10}

// movements binds each recognised emotion to its sway preset
var movements = map[script.Emotion]Movement{
	script.EmotionLaugh:    {Shake: 15, Frequency: 20},
	script.EmotionSurprise: {Shake: 20, Frequency: 30},
	script.EmotionSad:      {Shake: 5, Frequency: 10},
	script.EmotionExcited:  {Shake: 25, Frequency: 40},
	script.EmotionAngry:    {Shake: 30, Frequency: 50},
	script.EmotionConfused: {Shake: 10, Frequency: 15},
}

// window is how long a triggered emotion stays active, in seconds
const window = 0.5

// Lookup returns the sway preset for an emotion
func Lookup(emotion script.Emotion) Movement {
	if m, ok := movements[emotion]; ok {
		return m
	}
	return Idle
}

// At returns the movement in effect at a moment within a turn.
// Events are scanned in slice order; when several windows cover the
// same moment the last event wins.
func At(events []script.Event, t float64) Movement {
	movement := Idle
	for _, ev := range events {
		if ev.Time <= t && t < ev.Time+window {
			movement = Lookup(ev.Emotion)
		}
	}
	return movement
}

// Offset converts a movement into the horizontal displacement at time t,
// measured in seconds from the start of the turn
func Offset(t float64, m Movement) int {
	return int(math.Round(float64(m.Shake) * math.Sin(t*m.Frequency)))
}
