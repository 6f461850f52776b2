package main

import (
	"afya-chat/connectivity"
	"afya-chat/domain"
	apperrors "afya-chat/errors"
	"afya-chat/repositories"
	"context"
	"errors"
	"fmt"
)

const searchLimit = 10

// engine is the part of the orchestrator the terminal drives.
type engine interface {
	Send(text string) bool
	SendInput() bool
	Restart()
	SendQuickAction(action domain.QuickAction) (bool, error)
	SetLanguage(lang domain.Language) error
	ToggleLanguage() (domain.Language, error)
	StartListening() error
	StopListening() error
	SetReachable(reachable bool) bool
	ToggleBanner() connectivity.Banner
	History(cursor *string) ([]repositories.TranscriptMessage, *string, error)
	Search(ctx context.Context, terms string, limit int) ([]repositories.TranscriptMessage, error)
}

type repl struct {
	orchestrator engine
	dictation    *dictation
	out          *presenter
}

// handle executes one typed line and reports whether the session goes on.
func (r *repl) handle(ctx context.Context, line string) bool {
	cmd := parseCommand(line)
	switch cmd.kind {
	case cmdText:
		// An open capture takes the line as its transcript
		if r.dictation.Deliver(cmd.arg) {
			return true
		}
		r.orchestrator.Send(cmd.arg)
	case cmdNew:
		r.orchestrator.Restart()
	case cmdSend:
		if !r.orchestrator.SendInput() {
			r.out.info("nothing to send")
		}
	case cmdLanguage:
		r.language(cmd.arg)
	case cmdListen:
		// An unsupported platform is reported once, by the SpeechUnsupported event
		if err := r.orchestrator.StartListening(); err != nil && !errors.Is(err, apperrors.ErrUnsupportedCapability) {
			r.out.failure(err)
		}
	case cmdStop:
		if err := r.orchestrator.StopListening(); err != nil {
			r.out.failure(err)
		}
	case cmdQuick:
		action, err := domain.ParseQuickAction(cmd.arg)
		if err == nil {
			_, err = r.orchestrator.SendQuickAction(action)
		}
		if err != nil {
			r.out.failure(err)
		}
	case cmdHistory:
		var cursor *string
		if cmd.arg != "" {
			cursor = &cmd.arg
		}
		messages, next, err := r.orchestrator.History(cursor)
		if err != nil {
			r.out.failure(err)
			return true
		}
		r.out.history(messages, next)
	case cmdSearch:
		if cmd.arg == "" {
			r.out.info("usage: /search <terms>")
			return true
		}
		messages, err := r.orchestrator.Search(ctx, cmd.arg, searchLimit)
		if err != nil {
			r.out.failure(err)
			return true
		}
		r.out.history(messages, nil)
	case cmdBanner:
		r.orchestrator.ToggleBanner()
	case cmdOffline:
		if !r.orchestrator.SetReachable(false) {
			r.out.info("already offline")
		}
	case cmdOnline:
		if !r.orchestrator.SetReachable(true) {
			r.out.info("already online")
		}
	case cmdHelp:
		r.out.info(helpText)
	case cmdQuit:
		return false
	case cmdUnknown:
		r.out.info(fmt.Sprintf("unknown command %s, try /help", cmd.arg))
	}
	return true
}

func (r *repl) language(arg string) {
	if arg == "" {
		if _, err := r.orchestrator.ToggleLanguage(); err != nil {
			r.out.failure(err)
		}
		return
	}
	lang, err := domain.ParseLanguage(arg)
	if err == nil {
		err = r.orchestrator.SetLanguage(lang)
	}
	if err != nil {
		r.out.failure(err)
	}
}
