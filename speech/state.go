package speech

import (
	"afya-chat/domain"
	"time"
)

// Phase is the state of the speech input adapter.
type Phase int

const (
	// PhaseIdle - ready for a new attempt
	PhaseIdle Phase = iota

	// PhaseListening - the platform is capturing
	PhaseListening

	// PhaseResolved - one final transcript was delivered
	PhaseResolved

	// PhaseFailed - error, abort, or capture ended without a transcript
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reasons reported when the platform gives none.
const (
	ReasonNoSpeech    = "no-speech"
	ReasonStartFailed = "start-failed"
)

// Outcome is how an attempt ended: PhaseResolved with Text, or PhaseFailed with Reason.
type Outcome struct {
	Phase  Phase
	Text   string
	Reason string
	Err    error
	At     time.Time
}

// Status is a snapshot for the presentation layer.
type Status struct {
	Phase Phase
	// Language used by the next attempt
	Language domain.Language
	// Tag of the capture in flight, empty when idle
	ActiveTag string
	Last      *Outcome
}
