package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/dispatch"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/notify"
)

// Surface names a quick-contact control that opens a chat with a preset text.
type Surface string

const (
	SurfaceHero      Surface = "hero"
	SurfaceBreakfast Surface = "breakfast"
	SurfaceMeat      Surface = "meat"
	SurfaceSweets    Surface = "sweets"
	SurfaceCTA       Surface = "cta"
	SurfaceFloating  Surface = "floating"
)

type preset struct {
	text     string
	floating bool
}

var presets = map[Surface]preset{
	SurfaceHero:      {text: "Hello Best Eats!"},
	SurfaceBreakfast: {text: "Hi! I want to order Breakfast"},
	SurfaceMeat:      {text: "Hi! I want to order meat"},
	SurfaceSweets:    {text: "Hi! I want to order Sweets"},
	SurfaceCTA:       {text: "I want to order food 🍔"},
	SurfaceFloating:  {text: "Hello, I want to order food 🍔", floating: true},
}

func Surfaces() []Surface {
	out := make([]Surface, 0, len(presets))
	for s := range presets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func PresetText(s Surface) (string, bool) {
	p, ok := presets[s]
	return p.text, ok
}

// ItemText is the preset used by the quick order button on a dish page.
func ItemText(item models.CatalogItem, qty int) string {
	return fmt.Sprintf("Hi! I want to order:\n%s\nPrice: %s\nQuantity: %d", item.Name, models.FormatPrice(item.Price), qty)
}

// Contact serves the order-initiating surfaces outside checkout. Each call checks
// the gate on its own and never touches the cart.
type Contact struct {
	gate          availability.Checker
	router        dispatch.Router
	notifier      notify.Notifier
	contactPhone  string
	floatingPhone string
}

func NewContact(gate availability.Checker, router dispatch.Router, notifier notify.Notifier, contactPhone, floatingPhone string) *Contact {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Contact{
		gate:          gate,
		router:        router,
		notifier:      notifier,
		contactPhone:  contactPhone,
		floatingPhone: floatingPhone,
	}
}

func (c *Contact) Contact(ctx context.Context, s Surface) error {
	p, ok := presets[s]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, s)
	}
	if err := availability.Guard(c.gate, c.notifier); err != nil {
		return err
	}
	phone := c.contactPhone
	if p.floating {
		phone = c.floatingPhone
	}
	return c.router.To(phone).Dispatch(ctx, p.text)
}

// OrderItem opens a chat about a single dish without adding it to the cart.
func (c *Contact) OrderItem(ctx context.Context, item models.CatalogItem, qty int) error {
	if qty < 1 {
		return newValidationError("quantity must be at least 1")
	}
	if err := availability.Guard(c.gate, c.notifier); err != nil {
		return err
	}
	return c.router.To(c.contactPhone).Dispatch(ctx, ItemText(item, qty))
}
