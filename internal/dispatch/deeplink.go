package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const deepLinkBase = "https://wa.me/"

// DeepLinkURL builds the chat link carrying msg as prefilled text. The text is encoded
// the way browsers encode a URI component, so spaces become %20.
func DeepLinkURL(phone, msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return deepLinkBase + phone + "?text=" + text
}

// DeepLink opens the chat link for every message in a new browsing context.
type DeepLink struct {
	phone  string
	opener Opener
}

func NewDeepLink(phone string, opener Opener) *DeepLink {
	return &DeepLink{phone: phone, opener: opener}
}

func (d *DeepLink) To(phone string) Dispatcher {
	return &DeepLink{phone: phone, opener: d.opener}
}

func (d *DeepLink) Dispatch(ctx context.Context, msg string) error {
	link := DeepLinkURL(d.phone, msg)
	if err := d.opener.Open(ctx, link); err != nil {
		return fmt.Errorf("failed to open chat link: %w", err)
	}
	return nil
}
