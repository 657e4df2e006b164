// Package cart owns the shopping cart of a session.
//
// Every consumer holds the same *Store and reacts to its events; the cart is
// persisted to the "cart" slot after each mutation and rehydrated on Open.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/repositories"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrPersist wraps slot write failures. The in-memory mutation has already been applied.
	ErrPersist = errors.New("cart could not be persisted")
)

type EventKind string

const (
	EventAdded     EventKind = "added"
	EventIncreased EventKind = "increased"
	EventDecreased EventKind = "decreased"
	EventRemoved   EventKind = "removed"
	EventCleared   EventKind = "cleared"
	EventSettled   EventKind = "settled"
)

// Event describes one mutation. Line is the affected line after the mutation
// (for removals, the line as it was); Lines is a snapshot of the whole cart.
type Event struct {
	Kind  EventKind
	Line  models.CartLine
	Lines []models.CartLine
}

type Store struct {
	slots  repositories.SlotStore
	logger *log.Logger

	mu        sync.Mutex
	lines     []models.CartLine
	lastAdded *models.CartLine
	subs      map[int]func(Event)
	nextID    int
}

// Open rehydrates the cart from slots. Missing, unreadable or malformed data yields an empty cart.
func Open(ctx context.Context, slots repositories.SlotStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{
		slots:  slots,
		logger: logger,
		subs:   make(map[int]func(Event)),
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []models.CartLine {
	data, err := s.slots.Load(ctx, models.SlotCart)
	if errors.Is(err, repositories.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Printf("Error loading cart, starting empty: %v", err)
		return nil
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.Printf("Ignoring malformed cart data: %v", err)
		return nil
	}

	// drop anything that would break the one-line-per-item, qty >= 1 invariant
	clean := make([]models.CartLine, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if line.Qty < 1 || seen[line.Item.ID] {
			s.logger.Printf("Ignoring invalid cart line for item %d", line.Item.ID)
			continue
		}
		seen[line.Item.ID] = true
		clean = append(clean, line)
	}
	return clean
}

// AddToCart adds qty of item, merging into the existing line for item.ID if there is one.
// The returned line (post-increment) also becomes the last-added signal.
func (s *Store) AddToCart(ctx context.Context, item models.CatalogItem, qty int) (models.CartLine, error) {
	if qty < 1 {
		return models.CartLine{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	idx := s.indexOf(item.ID)
	if idx >= 0 {
		s.lines[idx].Qty += qty
	} else {
		s.lines = append(s.lines, models.CartLine{Item: item, Qty: qty})
		idx = len(s.lines) - 1
	}
	line := s.lines[idx]
	s.lastAdded = &line
	ev := s.eventLocked(EventAdded, line)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return line, err
}

// IncreaseQty adds one to the line for id. The last-added signal is set to the
// post-increment line read under the same lock as the write, so it never lags the cart.
func (s *Store) IncreaseQty(ctx context.Context, id int64) (models.CartLine, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.CartLine{}, ErrLineNotFound
	}
	s.lines[idx].Qty++
	line := s.lines[idx]
	s.lastAdded = &line
	ev := s.eventLocked(EventIncreased, line)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return line, err
}

// DecreaseQty subtracts one from the line for id, stopping at 1. It never removes the line.
func (s *Store) DecreaseQty(ctx context.Context, id int64) (models.CartLine, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.CartLine{}, ErrLineNotFound
	}
	if s.lines[idx].Qty > 1 {
		s.lines[idx].Qty--
	}
	line := s.lines[idx]
	ev := s.eventLocked(EventDecreased, line)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return line, err
}

// RemoveFromCart deletes the line for id whatever its quantity.
func (s *Store) RemoveFromCart(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	removed := s.lines[idx]
	s.lines = append(s.lines[:idx:idx], s.lines[idx+1:]...)
	ev := s.eventLocked(EventRemoved, removed)
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// Clear empties the cart, e.g. once an order has been handed off.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	ev := s.eventLocked(EventCleared, models.CartLine{})
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// Settle takes dispatched lines out of the cart: each line's quantity is reduced by the
// dispatched quantity and lines that reach zero are dropped. Anything added after the
// dispatch snapshot stays in the cart.
func (s *Store) Settle(ctx context.Context, dispatched []models.CartLine) error {
	s.mu.Lock()
	for _, d := range dispatched {
		idx := s.indexOf(d.Item.ID)
		if idx < 0 {
			continue
		}
		if s.lines[idx].Qty > d.Qty {
			s.lines[idx].Qty -= d.Qty
			continue
		}
		s.lines = append(s.lines[:idx:idx], s.lines[idx+1:]...)
	}
	if len(s.lines) == 0 {
		s.lines = nil
	}
	ev := s.eventLocked(EventSettled, models.CartLine{})
	err := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// Total is the sum of price * qty over all lines; zero for an empty cart.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.lines)
}

func total(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}

// Lines returns a copy of the cart in first-add order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) Line(id int64) (models.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.lines[idx], true
	}
	return models.CartLine{}, false
}

// LastAdded is the line most recently added or increased.
func (s *Store) LastAdded() (models.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAdded == nil {
		return models.CartLine{}, false
	}
	return *s.lastAdded, true
}

// Subscribe registers fn for every mutation. Callbacks run after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

type pendingEvent struct {
	ev   Event
	subs []func(Event)
}

func (s *Store) eventLocked(kind EventKind, line models.CartLine) pendingEvent {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return pendingEvent{
		ev:   Event{Kind: kind, Line: line, Lines: s.snapshotLocked()},
		subs: subs,
	}
}

func (s *Store) publish(p pendingEvent) {
	for _, fn := range p.subs {
		fn(p.ev)
	}
}

func (s *Store) snapshotLocked() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) indexOf(id int64) int {
	for i, line := range s.lines {
		if line.Item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.slots.Save(ctx, models.SlotCart, data); err != nil {
		s.logger.Printf("Error persisting cart: %v", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
