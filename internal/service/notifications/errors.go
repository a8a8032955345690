package notifications

import "errors"

var (
	ErrNoChannel = errors.New("notifications: no delivery channel configured")
	ErrDelivery  = errors.New("notifications: delivery failed")
)
