package events

import "errors"

// Event errors
var (
	// ErrBrokerClosed is returned when sending or subscribing after Close
	ErrBrokerClosed = errors.New("event broker closed")
)
