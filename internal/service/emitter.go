package service

import "context"

// EventEmitter pushes service-level events (room changes, layout saves,
// device refreshes) to the frontend. The App struct satisfies it by
// delegating to wailsRuntime.EventsEmit; tests use MockEmitter and the
// standalone MCP binary uses a no-op.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter records emissions for test assertions.
type MockEmitter struct {
	Events []EmittedEvent
}

type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}
