// Package availability decides whether orders may be placed right now.
//
// Check is the pure rule. Gate owns the single polling timer for a process and lets
// every order-initiating surface read or subscribe to the current status.
package availability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/chrisdamba/besteats/internal/notify"
)

// ErrClosed is returned when an order action is attempted outside working hours.
var ErrClosed = errors.New("orders cannot be placed outside working hours")

type Status int

const (
	Closed Status = iota
	Open
)

func (s Status) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Hours is a half-open [Open, Close) range of local clock hours.
type Hours struct {
	Open  int
	Close int
}

var DefaultHours = Hours{Open: 10, Close: 23}

func (h Hours) String() string {
	return fmt.Sprintf("%s - %s", clockLabel(h.Open), clockLabel(h.Close))
}

func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

// Check evaluates the hour of now in its own location; no timezone normalization happens.
func Check(now time.Time, h Hours) Status {
	hour := now.Hour()
	if hour >= h.Open && hour < h.Close {
		return Open
	}
	return Closed
}

// Checker is what order-initiating surfaces depend on.
type Checker interface {
	Status() Status
	Hours() Hours
}

// ClosedMessage is the notification shown for a rejected order action.
func ClosedMessage(h Hours) string {
	return fmt.Sprintf("Sorry! Orders cannot be placed outside working hours (%s).", h)
}

// Guard is the rejection path shared by every surface: when closed it notifies the user
// and returns ErrClosed, otherwise it returns nil. It never mutates anything.
func Guard(c Checker, n notify.Notifier) error {
	if c.Status() == Open {
		return nil
	}
	if n != nil {
		n.Error(ClosedMessage(c.Hours()))
	}
	return ErrClosed
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

type Gate struct {
	hours    Hours
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger

	mu     sync.RWMutex
	status Status
	subs   map[int]func(Status)
	nextID int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGate evaluates the status once immediately; Start begins the periodic re-evaluation.
func NewGate(hours Hours, opts ...Option) *Gate {
	g := &Gate{
		hours:    hours,
		interval: time.Minute,
		now:      time.Now,
		logger:   log.New(io.Discard, "", 0),
		subs:     make(map[int]func(Status)),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.status = Check(g.now(), g.hours)
	return g
}

func (g *Gate) Hours() Hours { return g.hours }

func (g *Gate) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

func (g *Gate) IsOpen() bool { return g.Status() == Open }

// Subscribe registers fn to be called whenever the status changes.
func (g *Gate) Subscribe(fn func(Status)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// Refresh re-evaluates the status against the clock and returns it.
func (g *Gate) Refresh() Status {
	next := Check(g.now(), g.hours)

	g.mu.Lock()
	changed := next != g.status
	g.status = next
	var subs []func(Status)
	if changed {
		subs = make([]func(Status), 0, len(g.subs))
		for _, fn := range g.subs {
			subs = append(subs, fn)
		}
	}
	g.mu.Unlock()

	if changed {
		g.logger.Printf("store is now %s", next)
		for _, fn := range subs {
			fn(next)
		}
	}
	return next
}

// Start evaluates the status and then polls every interval until ctx is done or Stop is called.
// Calling Start on a running gate does nothing.
func (g *Gate) Start(ctx context.Context) {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if g.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	g.Refresh()

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.Refresh()
			case <-ctx.Done():
				return
			}
		}
	}(g.done)
}

// Stop cancels the polling goroutine and waits for it to exit. It is safe to call more than once.
func (g *Gate) Stop() {
	g.runMu.Lock()
	defer g.runMu.Unlock()
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.cancel = nil
	g.done = nil
}
