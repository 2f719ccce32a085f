package service

import (
	"context"
	"io"
	"log"
	"sync"

	"ai-docchat-be/pkg/llm"
)

// fakeProvider is a canned LLM backend for service tests.
type fakeProvider struct {
	response string
	err      error

	mu         sync.Mutex
	calls      int
	lastPrompt string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

// fakePusher records WebSocket pushes.
type fakePusher struct {
	mu     sync.Mutex
	events []pushedEvent
}

type pushedEvent struct {
	SessionID string
	Event     string
	Data      any
}

func (f *fakePusher) Send(sessionID string, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushedEvent{SessionID: sessionID, Event: event, Data: data})
}

func (f *fakePusher) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// fakeBusPublisher records raw payloads published to the in-process bus.
type fakeBusPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakeBusPublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.payloads = append(f.payloads, cp)
	return nil
}

func (f *fakeBusPublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeBusPublisher) last() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return nil
	}
	return f.payloads[len(f.payloads)-1]
}

// nopLogger satisfies logger.ILogger without output.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
