//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"afya-chat/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Listener receives the callbacks of one recognition attempt.
// Callbacks may arrive on any goroutine.
type Listener interface {
	OnResult(text string)
	OnError(reason string)
	OnEnd()
}

// Recognizer is the platform speech-to-text capability.
// Absence of the capability is a normal condition reported by IsSupported.
type Recognizer interface {
	IsSupported() bool
	// Begin starts a single-shot, final-only capture for the given language tag.
	Begin(languageTag string, listener Listener) error
	Cancel()
}

// SpeechConsumer receives the outcome of every settled capture.
type SpeechConsumer interface {
	ConsumeSpeechResult(text string)
	SpeechFailed(reason string)
}

// ConnectivitySignal answers the initial reachability query.
// Transitions are pushed to the monitor by the platform adapter.
type ConnectivitySignal interface {
	IsOnline() bool
}
