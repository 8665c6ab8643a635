package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/scan"
)

// eventBuffer is how many scan events may wait for the UI.
const eventBuffer = 100

// ScanEventMsg wraps a scan.Event for use as a tea.Msg.
type ScanEventMsg struct {
	Event scan.Event
}

// EventBridge adapts scan events to bubble tea messages.
// It implements scan.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.Mutex
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBuffer),
	}
}

// Emit implements scan.EventEmitter.
// Progress events are dropped when the UI falls behind; the final
// ScanComplete is always delivered.
func (b *EventBridge) Emit(event scan.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	msg := ScanEventMsg{Event: event}

	if _, final := event.(scan.ScanComplete); final {
		b.eventChan <- msg

		return
	}

	select {
	case b.eventChan <- msg:
	default:
	}
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this after processing an event to continue listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil // Channel closed
		}

		return msg
	}
}

// Close closes the event channel.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}
