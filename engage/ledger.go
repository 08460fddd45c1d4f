// Package engage implements the engagement-integrity rules of the client:
// local rate limiting, optimistic mutations with rollback, community
// auto-moderation and per-session view accounting.
package engage

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/mathfra-rgb/cancelme-mvp/app"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const ledgerPrefix = "cm:"

// Ledger persists the timestamp list of each rate-limit scope in the device
// store, as a JSON array of Unix milliseconds under "cm:<scope>".
type Ledger struct {
	kv app.KV
}

// NewLedger creates a ledger over kv.
func NewLedger(kv app.KV) *Ledger {
	return &Ledger{kv: kv}
}

// Events returns the stored timestamps of scope. Missing or unreadable
// entries read as empty.
func (l *Ledger) Events(scope string) ([]time.Time, error) {
	raw, ok, err := l.kv.Get(ledgerPrefix + scope)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", scope, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var ms []int64
	if err := json.UnmarshalFromString(raw, &ms); err != nil {
		return nil, nil
	}
	out := make([]time.Time, len(ms))
	for i, v := range ms {
		out[i] = time.UnixMilli(v)
	}
	return out, nil
}

// Replace overwrites the timestamps of scope. An empty list removes the key.
func (l *Ledger) Replace(scope string, events []time.Time) error {
	if len(events) == 0 {
		if err := l.kv.Delete(ledgerPrefix + scope); err != nil {
			return fmt.Errorf("clearing ledger %s: %w", scope, err)
		}
		return nil
	}
	ms := make([]int64, len(events))
	for i, t := range events {
		ms[i] = t.UnixMilli()
	}
	raw, err := json.MarshalToString(ms)
	if err != nil {
		return fmt.Errorf("encoding ledger %s: %w", scope, err)
	}
	if err := l.kv.Set(ledgerPrefix+scope, raw); err != nil {
		return fmt.Errorf("writing ledger %s: %w", scope, err)
	}
	return nil
}
