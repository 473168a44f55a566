package model

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// StorageBackend selects the key/value medium holding widget state.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageYAML   StorageBackend = "yaml"
)

// The countdown has to be checked at least once per second while running.
const (
	MinTickInterval = 100 * time.Millisecond
	MaxTickInterval = time.Second
)

// ErrNotLoopback rejects control API addresses reachable from the network.
var ErrNotLoopback = errors.New("address is not loopback")

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	TickInterval  time.Duration

	Storage       StorageBackend
	Notifications bool

	// HTTPAddr enables the local control API when non-empty. It must be
	// a loopback address.
	HTTPAddr string
}

// DefaultSettings returns default settings for Aetheris.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:  DefaultWorkDuration,
		BreakDuration: DefaultBreakDuration,
		TickInterval:  MaxTickInterval,
		Storage:       StorageSQLite,
		Notifications: true,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:  settings.WorkDuration,
		BreakDuration: settings.BreakDuration,
	}.Normalized()
}

// ValidTickInterval reports whether interval keeps the countdown within
// one second of its deadline.
func ValidTickInterval(interval time.Duration) bool {
	return interval >= MinTickInterval && interval <= MaxTickInterval
}

// CheckLoopback returns ErrNotLoopback unless addr is host:port with a
// loopback host. An empty host listens on every interface and is refused.
func CheckLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotLoopback, err)
	}
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotLoopback, addr)
}
