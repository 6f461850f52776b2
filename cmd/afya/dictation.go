package main

import (
	"afya-chat/contract"
	"afya-chat/errors"
	"strings"
	"sync"
)

// dictation is the terminal stand-in for a speech engine: while a capture is
// open, the next typed line is the transcript.
type dictation struct {
	mu       sync.Mutex
	enabled  bool
	tag      string
	listener contract.Listener
}

func newDictation(enabled bool) *dictation {
	return &dictation{enabled: enabled}
}

func (d *dictation) IsSupported() bool {
	return d.enabled
}

func (d *dictation) Begin(languageTag string, listener contract.Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener != nil {
		return errors.ErrAlreadyListening
	}
	d.tag = languageTag
	d.listener = listener
	return nil
}

// Cancel ends the open capture without a transcript.
func (d *dictation) Cancel() {
	if listener := d.take(); listener != nil {
		listener.OnEnd()
	}
}

// Deliver hands line to the open capture. It reports false when nothing was
// listening, so the caller treats the line as ordinary input.
func (d *dictation) Deliver(line string) bool {
	listener := d.take()
	if listener == nil {
		return false
	}
	if strings.TrimSpace(line) == "" {
		listener.OnEnd()
		return true
	}
	listener.OnResult(line)
	return true
}

func (d *dictation) Active() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tag, d.listener != nil
}

func (d *dictation) take() contract.Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	listener := d.listener
	d.listener = nil
	return listener
}
