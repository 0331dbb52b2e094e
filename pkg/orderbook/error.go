package orderbook

import "errors"

var (
	ErrInvalidOrder       = errors.New("invalid order")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order not cancelable")
	ErrProcessorStopped   = errors.New("processor stopped")
)
