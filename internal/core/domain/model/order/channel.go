package order

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// Channel is how the order reached the restaurant.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPhone    Channel = "phone"
	ChannelWalkIn   Channel = "walkin"
)

// ParseChannel maps an empty string to ChannelWeb.
func ParseChannel(s string) (Channel, error) {
	if s == "" {
		return ChannelWeb, nil
	}
	c := Channel(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Channel) Validate() error {
	switch c {
	case ChannelWeb, ChannelWhatsApp, ChannelPhone, ChannelWalkIn:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a valid channel", string(c)))
	}
}

func (c Channel) String() string {
	return string(c)
}
