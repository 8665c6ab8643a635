package scan

import "github.com/joe/file-inventory/internal/inventory"

// Event is the interface implemented by all scan events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// ScanStarted is emitted once the root has been validated.
type ScanStarted struct {
	Root string
	Host string
}

func (ScanStarted) isEvent() {}

// ScanProgress is emitted periodically while walking.
type ScanProgress struct {
	Files    int
	Failures int
	Bytes    int64
	Current  string
}

func (ScanProgress) isEvent() {}

// FileFailed is emitted when a file could not be inspected.
type FileFailed struct {
	Failure inventory.Failure
}

func (FileFailed) isEvent() {}

// DirectorySkipped is emitted when a directory could not be read.
type DirectorySkipped struct {
	Failure inventory.Failure
}

func (DirectorySkipped) isEvent() {}

// ScanComplete is emitted when the walk ends, including after cancellation.
type ScanComplete struct {
	Result *Result
}

func (ScanComplete) isEvent() {}
