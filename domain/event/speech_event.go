package event

import "time"

type SpeechStarted struct {
	Tag string
	At  time.Time
}

func (e SpeechStarted) Name() string          { return "SpeechStarted" }
func (e SpeechStarted) OccurredAt() time.Time { return e.At }

type SpeechResolved struct {
	Text string
	At   time.Time
}

func (e SpeechResolved) Name() string          { return "SpeechResolved" }
func (e SpeechResolved) OccurredAt() time.Time { return e.At }

type SpeechFailed struct {
	Reason string
	Err    error
	At     time.Time
}

func (e SpeechFailed) Name() string          { return "SpeechFailed" }
func (e SpeechFailed) OccurredAt() time.Time { return e.At }

// SpeechUnsupported is raised exactly once per rejected listen attempt.
type SpeechUnsupported struct {
	At time.Time
}

func (e SpeechUnsupported) Name() string          { return "SpeechUnsupported" }
func (e SpeechUnsupported) OccurredAt() time.Time { return e.At }
