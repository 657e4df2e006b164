// Package order turns the cart into an outbound order message.
//
// Checkout is the state machine behind the checkout screen. Every transition that
// places an order first asks the availability gate, and the dispatched lines leave the
// cart only after the message has been handed to the dispatcher.
package order

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/dispatch"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/notify"
)

type State string

const (
	StateIdle                    State = "idle"
	StateAwaitingReference       State = "awaiting_reference"
	StateDispatching             State = "dispatching"
	StateAwaitingAcknowledgement State = "awaiting_acknowledgement"
)

// Cart is the part of the cart store the checkout needs. Settle removes the
// dispatched quantities and leaves anything added since in place.
type Cart interface {
	Lines() []models.CartLine
	Settle(ctx context.Context, dispatched []models.CartLine) error
}

// LocationSource supplies the location line; see geo.Locator.
type LocationSource interface {
	Link() string
}

type Request struct {
	Delivery      models.DeliveryMethod `json:"delivery_method"`
	Payment       models.PaymentMethod  `json:"payment_method"`
	ShareLocation bool                  `json:"share_location"`
}

// Result describes where a checkout step left things. Order and Message are set once
// a message was dispatched; PaymentTarget once an online reference is awaited.
type Result struct {
	State         State         `json:"state"`
	Order         *models.Order `json:"order,omitempty"`
	Message       string        `json:"message,omitempty"`
	PaymentTarget string        `json:"payment_target,omitempty"`
	DispatchErr   error         `json:"-"`
}

type Option func(*Checkout)

func WithClock(now func() time.Time) Option {
	return func(c *Checkout) { c.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Checkout) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Checkout) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLocation(src LocationSource) Option {
	return func(c *Checkout) { c.location = src }
}

// WithPaymentTarget sets the payload shown to the user for online payment.
func WithPaymentTarget(target string) Option {
	return func(c *Checkout) { c.paymentTarget = target }
}

// WithAcknowledgement keeps the cart after dispatch until Acknowledge is called.
func WithAcknowledgement(required bool) Option {
	return func(c *Checkout) { c.requireAck = required }
}

func WithReferences(next func() string) Option {
	return func(c *Checkout) {
		if next != nil {
			c.newReference = next
		}
	}
}

type Checkout struct {
	cart          Cart
	gate          availability.Checker
	dispatcher    dispatch.Dispatcher
	notifier      notify.Notifier
	location      LocationSource
	logger        *log.Logger
	now           func() time.Time
	newReference  func() string
	paymentTarget string
	requireAck    bool

	mu       sync.Mutex
	state    State
	pending  *models.Order
	identity *models.Identity
}

func NewCheckout(cart Cart, gate availability.Checker, dispatcher dispatch.Dispatcher, opts ...Option) *Checkout {
	c := &Checkout{
		cart:         cart,
		gate:         gate,
		dispatcher:   dispatcher,
		notifier:     notify.Discard{},
		logger:       log.New(io.Discard, "", 0),
		now:          time.Now,
		newReference: NewReference,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the order waiting for a payment reference or an acknowledgement.
func (c *Checkout) Pending() (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return models.Order{}, false
	}
	return *c.pending, true
}

// SetIdentity labels subsequent orders; nil means guest.
func (c *Checkout) SetIdentity(id *models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = id
}

func (c *Checkout) Identity() *models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Submit places the cart as an order. Cash orders are dispatched right away; online
// orders wait in StateAwaitingReference for ConfirmReference.
func (c *Checkout) Submit(ctx context.Context, req Request) (Result, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return Result{State: state}, ErrInvalidState
	}
	if err := availability.Guard(c.gate, c.notifier); err != nil {
		c.mu.Unlock()
		return Result{State: StateIdle}, err
	}

	lines := c.cart.Lines()
	if len(lines) == 0 {
		c.mu.Unlock()
		return Result{State: StateIdle}, newValidationError("cart is empty")
	}
	if req.Delivery == "" {
		req.Delivery = models.DeliveryMethodDelivery
	}
	if req.Payment == "" {
		req.Payment = models.PaymentMethodCash
	}

	o := &models.Order{
		Lines:    lines,
		Customer: c.identity.Label(),
		Delivery: req.Delivery,
		Payment:  req.Payment,
		Location: c.locationLine(req.ShareLocation),
		Total:    total(lines),
	}

	if req.Payment == models.PaymentMethodOnline {
		c.state = StateAwaitingReference
		c.pending = o
		c.mu.Unlock()
		return Result{State: StateAwaitingReference, PaymentTarget: c.paymentTarget}, nil
	}

	o.Invoice = models.CashInvoice
	return c.dispatchLocked(ctx, o), nil
}

// ConfirmReference completes an online order with the user's payment reference.
// A blank reference is rejected and the checkout keeps waiting.
func (c *Checkout) ConfirmReference(ctx context.Context, reference string) (Result, error) {
	c.mu.Lock()
	if c.state != StateAwaitingReference || c.pending == nil {
		state := c.state
		c.mu.Unlock()
		return Result{State: state}, ErrInvalidState
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		c.mu.Unlock()
		return Result{State: StateAwaitingReference, PaymentTarget: c.paymentTarget},
			newValidationError("payment reference is required")
	}
	if err := availability.Guard(c.gate, c.notifier); err != nil {
		c.mu.Unlock()
		return Result{State: StateAwaitingReference, PaymentTarget: c.paymentTarget}, err
	}

	lines := c.cart.Lines()
	if len(lines) == 0 {
		c.mu.Unlock()
		return Result{State: StateAwaitingReference, PaymentTarget: c.paymentTarget},
			newValidationError("cart is empty")
	}

	o := c.pending
	o.Lines = lines
	o.Total = total(lines)
	o.Customer = c.identity.Label()
	o.Invoice = reference
	return c.dispatchLocked(ctx, o), nil
}

// Cancel abandons an online order that is waiting for its reference. The cart is untouched.
func (c *Checkout) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingReference {
		return ErrInvalidState
	}
	c.state = StateIdle
	c.pending = nil
	return nil
}

// Acknowledge confirms a dispatched order was received and takes its lines out of the cart.
func (c *Checkout) Acknowledge(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state != StateAwaitingAcknowledgement {
		state := c.state
		c.mu.Unlock()
		return Result{State: state}, ErrInvalidState
	}
	o := c.pending
	c.state = StateIdle
	c.pending = nil
	c.mu.Unlock()

	c.settleCart(ctx, o)
	return Result{State: StateIdle, Order: o}, nil
}

// dispatchLocked is entered with c.mu held and releases it while the dispatcher runs.
func (c *Checkout) dispatchLocked(ctx context.Context, o *models.Order) Result {
	o.Reference = c.newReference()
	o.PlacedAt = c.now()
	msg := RenderMessage(*o)
	c.state = StateDispatching
	c.pending = o
	c.mu.Unlock()

	res := Result{Order: o, Message: msg}
	if err := c.dispatcher.Dispatch(ctx, msg); err != nil {
		c.logger.Printf("Error dispatching order %s: %v", o.Reference, err)
		c.notifier.Error("Could not hand the order to the chat app")
		res.DispatchErr = err
	}

	c.mu.Lock()
	if c.requireAck {
		c.state = StateAwaitingAcknowledgement
		c.mu.Unlock()
		res.State = StateAwaitingAcknowledgement
		return res
	}
	c.state = StateIdle
	c.pending = nil
	c.mu.Unlock()

	c.settleCart(ctx, o)
	res.State = StateIdle
	return res
}

func (c *Checkout) settleCart(ctx context.Context, o *models.Order) {
	if err := c.cart.Settle(ctx, o.Lines); err != nil {
		c.logger.Printf("Error settling cart after order %s: %v", o.Reference, err)
	}
}

func total(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}

// locationLine renders the location for the message. Only a lookup that ran and
// failed yields LocationUnavailable; opting out or a lookup still in flight reads as
// not shared.
func (c *Checkout) locationLine(share bool) string {
	if !share || c.location == nil {
		return models.LocationNotShared
	}
	if link := c.location.Link(); link != "" {
		return link
	}
	return models.LocationNotShared
}
