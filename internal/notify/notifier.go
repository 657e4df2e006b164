// Package notify is the boundary to whatever presents toasts to the user.
// Calls are fire-and-forget; nothing is returned to the caller.
package notify

import (
	"log"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a logger; used by the CLI.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) { n.logger.Printf("[%s] %s", LevelSuccess, msg) }
func (n *LogNotifier) Info(msg string)    { n.logger.Printf("[%s] %s", LevelInfo, msg) }
func (n *LogNotifier) Error(msg string)   { n.logger.Printf("[%s] %s", LevelError, msg) }

type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recorder keeps notifications in memory so they can be drained, e.g. by the HTTP API
// which returns them to the client alongside the response.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	next  Notifier
}

// NewRecorder records every notification and forwards it to next when next is non-nil.
func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	r.items = append(r.items, Notification{Level: level, Message: msg})
	r.mu.Unlock()
}

func (r *Recorder) Success(msg string) {
	r.add(LevelSuccess, msg)
	if r.next != nil {
		r.next.Success(msg)
	}
}

func (r *Recorder) Info(msg string) {
	r.add(LevelInfo, msg)
	if r.next != nil {
		r.next.Info(msg)
	}
}

func (r *Recorder) Error(msg string) {
	r.add(LevelError, msg)
	if r.next != nil {
		r.next.Error(msg)
	}
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Drain returns and forgets the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Info(string)    {}
func (Discard) Error(string)   {}
