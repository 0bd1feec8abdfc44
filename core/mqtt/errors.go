package mqtt

import "errors"

// ErrNotConnected is returned when a publish is attempted before the broker
// connection is established.
var ErrNotConnected = errors.New("mqtt client not connected")
