// Package ui carries cumulative totals from the daemon to the menubar over
// a unix socket as newline-delimited JSON.
package ui

import (
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/metrics"
)

const (
	DefaultSocket = "/tmp/kweeb.sock"

	ErrListen = errors.ErrorCode("ui_listen_failed")
)

// Message is one update line on the socket.
type Message struct {
	metrics.Counters
	UpdatedAt time.Time `json:"updated_at"`
}
