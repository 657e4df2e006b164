package order

import (
	"fmt"
	"strings"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/besteats/internal/models"
)

// TimeLayout is the local timestamp format used in order messages.
const TimeLayout = "2006-01-02T15:04:05"

const separator = "------------------"

// NewReference returns a fresh order reference.
func NewReference() string {
	return "ORD-" + strings.ToUpper(cuid.Slug())
}

// RenderMessage produces the text handed to the dispatch channel. The output depends
// only on o, so the same order always renders the same message.
func RenderMessage(o models.Order) string {
	var b strings.Builder

	b.WriteString("*New Order*\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Order: %s\n", o.Reference)
	fmt.Fprintf(&b, "Customer: %s\n", valueOr(o.Customer, models.GuestLabel))
	fmt.Fprintf(&b, "Time: %s\n", o.PlacedAt.Format(TimeLayout))
	fmt.Fprintf(&b, "Location: %s\n", valueOr(o.Location, models.LocationNotShared))
	fmt.Fprintf(&b, "Delivery: %s\n", o.Delivery)
	fmt.Fprintf(&b, "Payment: %s\n", o.Payment)
	fmt.Fprintf(&b, "Invoice: %s\n", o.Invoice)
	b.WriteString(separator + "\n")

	for i, line := range o.Lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, line.Item.Name)
		fmt.Fprintf(&b, "   Qty: %d\n", line.Qty)
		fmt.Fprintf(&b, "   Price: %s\n", models.FormatPrice(line.Item.Price))
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Total: %s", models.FormatPrice(o.Total))
	return b.String()
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
