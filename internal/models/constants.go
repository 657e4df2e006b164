package models

import (
	"fmt"
	"strings"
)

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "Delivery"
	DeliveryMethodPickup   DeliveryMethod = "Pickup"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodOnline PaymentMethod = "Online"
)

// CashInvoice is the invoice value used when no online reference applies.
const CashInvoice = "Cash"

func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delivery":
		return DeliveryMethodDelivery, nil
	case "pickup":
		return DeliveryMethodPickup, nil
	default:
		return "", fmt.Errorf("unknown delivery method %q", s)
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash":
		return PaymentMethodCash, nil
	case "online":
		return PaymentMethodOnline, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}
