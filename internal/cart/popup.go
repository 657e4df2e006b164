package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/notify"
)

const DefaultPopupDelay = 2200 * time.Millisecond

// Popup is the transient "added to cart" confirmation. It follows the store's
// add and increase events and hides itself after a fixed delay regardless of
// what happens to the cart in the meantime.
type Popup struct {
	notifier notify.Notifier
	delay    time.Duration

	mu          sync.Mutex
	visible     *models.CartLine
	generation  int
	timer       *time.Timer
	closed      bool
	unsubscribe func()
}

func NewPopup(store *Store, notifier notify.Notifier, delay time.Duration) *Popup {
	if delay <= 0 {
		delay = DefaultPopupDelay
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	p := &Popup{notifier: notifier, delay: delay}
	p.unsubscribe = store.Subscribe(p.onEvent)
	return p
}

func (p *Popup) onEvent(ev Event) {
	if ev.Kind != EventAdded && ev.Kind != EventIncreased {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	line := ev.Line
	p.visible = &line
	p.generation++
	gen := p.generation
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() { p.hide(gen) })
	p.mu.Unlock()

	p.notifier.Success(fmt.Sprintf("%s added to cart", line.Item.Name))
}

func (p *Popup) hide(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen == p.generation {
		p.visible = nil
	}
}

// Visible returns the line currently shown, if any.
func (p *Popup) Visible() (models.CartLine, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible == nil {
		return models.CartLine{}, false
	}
	return *p.visible, true
}

// Close stops the dismissal timer and detaches from the store.
func (p *Popup) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.visible = nil
	p.mu.Unlock()

	p.unsubscribe()
}
