package eventbus

import "errors"

var (
	// ErrConnect broker unreachable or channel could not be opened
	ErrConnect = errors.New("eventbus: failed to connect to broker")

	// ErrPublish broker rejected or dropped the message
	ErrPublish = errors.New("eventbus: failed to publish event")

	// ErrMarshal payload could not be encoded
	ErrMarshal = errors.New("eventbus: failed to marshal event")
)
