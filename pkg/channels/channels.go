// Package channels holds the send helper backing engine event fan-out.
package channels

import "errors"

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrChannelFull   = errors.New("channel full")
)

// SendNonBlock delivers msg if the channel has room and returns an error
// otherwise. The event loop calls it for every subscriber, so it must never
// block and must survive a channel closed by a concurrent unsubscribe.
func SendNonBlock[T any](ch chan<- T, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	select {
	case ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}
