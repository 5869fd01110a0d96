package base

import "errors"

var (
	ErrConnectFailed    = errors.New("connect failed")
	ErrBindFailed       = errors.New("bind failed")
	ErrNotStarted       = errors.New("listener not started")
	ErrAlreadyStarted   = errors.New("listener already started")
	ErrListenerStopped  = errors.New("listener stopped")
	ErrConnectionClosed = errors.New("connection closed")
)
