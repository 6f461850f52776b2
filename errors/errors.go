package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Speech capture
	ErrUnsupportedCapability = fmt.Errorf("speech recognition is not supported on this platform")
	ErrCaptureFailed         = fmt.Errorf("speech capture failed")
	ErrAlreadyListening      = fmt.Errorf("speech adapter is already listening")
	ErrNotListening          = fmt.Errorf("speech adapter is not listening")
	ErrAdapterClosed         = fmt.Errorf("speech adapter is closed")

	// Localization
	ErrMissingLocalizationKey = fmt.Errorf("missing localization key")
	ErrUnknownLanguage        = fmt.Errorf("unknown language")

	// Responder rules
	ErrEmptyFallback = fmt.Errorf("rule set has no fallback reply")

	// Session
	ErrSessionDisposed = fmt.Errorf("session disposed")
	ErrUnknownAction   = fmt.Errorf("unknown quick action")
)
