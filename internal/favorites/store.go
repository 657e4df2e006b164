// Package favorites keeps the saved dishes of a session and the user's named lists.
//
// The favorites set and the list data (registry + item assignment) live in
// separate slots and are loaded independently.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/notify"
	"github.com/chrisdamba/besteats/internal/repositories"
)

var (
	ErrUnknownList = errors.New("favorites list does not exist")
	ErrPersist     = errors.New("favorites could not be persisted")
)

type EventKind string

const (
	EventAdded    EventKind = "added"
	EventRemoved  EventKind = "removed"
	EventCleared  EventKind = "cleared"
	EventListed   EventKind = "list_created"
	EventAssigned EventKind = "assigned"
)

type Event struct {
	Kind EventKind
	Item models.CatalogItem
	List string
}

type Store struct {
	slots    repositories.SlotStore
	notifier notify.Notifier
	logger   *log.Logger

	mu         sync.Mutex
	items      []models.CatalogItem
	lists      []string
	assignment map[int64]string
	subs       map[int]func(Event)
	nextID     int
}

// Open rehydrates the favorites set, the list registry and the assignment map.
// Each falls back to its default when missing or malformed.
func Open(ctx context.Context, slots repositories.SlotStore, notifier notify.Notifier, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	s := &Store{
		slots:      slots,
		notifier:   notifier,
		logger:     logger,
		assignment: make(map[int64]string),
		subs:       make(map[int]func(Event)),
	}

	var items []models.CatalogItem
	if s.load(ctx, models.SlotFavorites, &items) {
		seen := make(map[int64]bool, len(items))
		for _, it := range items {
			if !seen[it.ID] {
				seen[it.ID] = true
				s.items = append(s.items, it)
			}
		}
	}

	var lists []string
	if s.load(ctx, models.SlotFavoriteLists, &lists) && len(lists) > 0 {
		s.lists = normalizeLists(lists)
	} else {
		s.lists = append([]string(nil), models.DefaultFavoriteLists...)
	}

	var assignment map[int64]string
	if s.load(ctx, models.SlotFavoriteAssign, &assignment) && assignment != nil {
		s.assignment = assignment
	}
	return s
}

func (s *Store) load(ctx context.Context, key string, dst interface{}) bool {
	data, err := s.slots.Load(ctx, key)
	if errors.Is(err, repositories.ErrSlotNotFound) {
		return false
	}
	if err != nil {
		s.logger.Printf("Error loading %s, using defaults: %v", key, err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Printf("Ignoring malformed %s data: %v", key, err)
		return false
	}
	return true
}

// normalizeLists keeps the reserved list first and drops blanks and duplicates.
func normalizeLists(lists []string) []string {
	out := []string{models.AllFavoritesList}
	seen := map[string]bool{models.AllFavoritesList: true}
	for _, name := range lists {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ToggleFavorite adds item when absent and removes it when present. Only adding notifies the user.
func (s *Store) ToggleFavorite(ctx context.Context, item models.CatalogItem) (added bool, err error) {
	s.mu.Lock()
	idx := s.indexOf(item.ID)
	kind := EventAdded
	if idx >= 0 {
		s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
		kind = EventRemoved
	} else {
		s.items = append(s.items, item)
		added = true
	}
	err = s.saveLocked(ctx, models.SlotFavorites, s.itemsForSave())
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if added {
		s.notifier.Success("Added to favorites")
	}
	publish(subs, Event{Kind: kind, Item: item})
	return added, err
}

func (s *Store) IsFavorite(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Favorites returns the set in the order items were added.
func (s *Store) Favorites() []models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

// ClearFavorites empties the set. Lists and assignments are kept.
func (s *Store) ClearFavorites(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	err := s.saveLocked(ctx, models.SlotFavorites, s.itemsForSave())
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notifier.Info("Favorites cleared")
	publish(subs, Event{Kind: EventCleared})
	return err
}

// Lists returns the registry, reserved list first.
func (s *Store) Lists() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists...)
}

// CreateList registers a new list name. Blank or already-known names are a no-op returning false.
func (s *Store) CreateList(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	if s.hasList(name) {
		s.mu.Unlock()
		return false, nil
	}
	s.lists = append(s.lists, name)
	err := s.saveLocked(ctx, models.SlotFavoriteLists, s.lists)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	publish(subs, Event{Kind: EventListed, List: name})
	return true, err
}

// AssignToList puts itemID in exactly one list; a later assignment replaces an earlier one.
func (s *Store) AssignToList(ctx context.Context, itemID int64, list string) error {
	list = strings.TrimSpace(list)

	s.mu.Lock()
	if !s.hasList(list) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	s.assignment[itemID] = list
	err := s.saveLocked(ctx, models.SlotFavoriteAssign, s.assignment)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("Added to %q", list))
	publish(subs, Event{Kind: EventAssigned, Item: models.CatalogItem{ID: itemID}, List: list})
	return err
}

// ListOf reports which list itemID is assigned to.
func (s *Store) ListOf(itemID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.assignment[itemID]
	return list, ok
}

// Filter returns the favorites shown for list and a case-insensitive name query.
// The reserved list (or an empty list name) shows everything regardless of assignments.
func (s *Store) Filter(list, query string) []models.CatalogItem {
	list = strings.TrimSpace(list)
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CatalogItem
	for _, it := range s.items {
		if query != "" && !strings.Contains(strings.ToLower(it.Name), query) {
			continue
		}
		if list != "" && list != models.AllFavoritesList && s.assignment[it.ID] != list {
			continue
		}
		out = append(out, it)
	}
	return out
}

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

func (s *Store) subscribersLocked() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func publish(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) hasList(name string) bool {
	for _, l := range s.lists {
		if l == name {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id int64) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) itemsForSave() []models.CatalogItem {
	if s.items == nil {
		return []models.CatalogItem{}
	}
	return s.items
}

func (s *Store) saveLocked(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.slots.Save(ctx, key, data); err != nil {
		s.logger.Printf("Error persisting %s: %v", key, err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
