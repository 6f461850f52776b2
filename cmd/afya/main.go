package main

import (
	"afya-chat/connectivity"
	"afya-chat/internal"
	"afya-chat/runtime"
	"afya-chat/runtime/workers"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the shell.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Afya terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the conversation engine to the terminal. Deferred cleanup always
// runs before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Engine
	dictation := newDictation(config.SpeechEnabled)
	options := runtime.Options{
		Language:        config.Language(),
		Latency:         config.ResponseLatency,
		BannerWindow:    config.BannerWindow,
		BufferSize:      config.BufferSize,
		SinkTimeout:     config.SinkTimeout,
		TranscriptLimit: config.TranscriptLimit,
		Recognizer:      dictation,
		ProbeInterval:   config.ProbeInterval,
	}
	if config.ProbeAddress != "" {
		options.Probe = connectivity.NewDialProbe(config.ProbeAddress, config.ProbeTimeout)
	}

	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator, err := runtime.NewOrchestrator(log, sup, options)
	if err != nil {
		return exitRuntime, fmt.Errorf("orchestrator failed to build: %w", err)
	}
	defer func() {
		if err := orchestrator.Close(); err != nil {
			log.Error("Closing orchestrator", "error", err)
		}
	}()

	out := newPresenter(os.Stdout, orchestrator, config.Colours)
	orchestrator.Add(out)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start the Engine
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator stopped", "error", err)
		}
	}()

	out.info(orchestrator.T("appName") + "  (/help)")
	orchestrator.ShowBanner()

	// 5. Read the terminal until /quit, EOF or a signal
	terminal := &repl{orchestrator: orchestrator, dictation: dictation, out: out}
	lines := readLines(os.Stdin)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || !terminal.handle(ctx, line) {
				break loop
			}
		}
	}

	// 6. Final Cleanup
	orchestrator.Stop()
	<-engineDone
	log.Info("Program stopped cleanly")
	return exitOK, nil
}

func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
