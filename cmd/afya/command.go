package main

import "strings"

type commandKind int

const (
	cmdText commandKind = iota
	cmdLanguage
	cmdListen
	cmdStop
	cmdSend
	cmdNew
	cmdQuick
	cmdHistory
	cmdSearch
	cmdBanner
	cmdOffline
	cmdOnline
	cmdHelp
	cmdQuit
	cmdUnknown
)

var commands = map[string]commandKind{
	"/lang":    cmdLanguage,
	"/listen":  cmdListen,
	"/stop":    cmdStop,
	"/send":    cmdSend,
	"/new":     cmdNew,
	"/quick":   cmdQuick,
	"/history": cmdHistory,
	"/search":  cmdSearch,
	"/banner":  cmdBanner,
	"/offline": cmdOffline,
	"/online":  cmdOnline,
	"/help":    cmdHelp,
	"/quit":    cmdQuit,
}

type command struct {
	kind commandKind
	arg  string
}

// parseCommand splits a typed line into a slash command and its argument.
// Anything not starting with a slash is conversation text.
func parseCommand(line string) command {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return command{kind: cmdText, arg: line}
	}
	name, arg, _ := strings.Cut(trimmed, " ")
	kind, ok := commands[strings.ToLower(name)]
	if !ok {
		return command{kind: cmdUnknown, arg: name}
	}
	return command{kind: kind, arg: strings.TrimSpace(arg)}
}

const helpText = `Commands:
  <text>            send a message
  /lang [en|sw]     switch or toggle the language
  /listen           start voice input, the next line is the transcript
  /stop             stop voice input
  /send             send the input filled by voice
  /new              start a new conversation
  /quick <action>   clinics, appointment or faqs
  /history [cursor] show the transcript, newest first
  /search <terms>   search the transcript
  /banner           toggle the connectivity banner
  /offline /online  simulate a connectivity change
  /quit             leave`
