package feed

import (
	"context"
	"encoding/json"
	"fmt"
)

// RowChange is one row-level transition from the store's change feed, as
// delivered by either the HTTP webhook or the Kafka consumer. Record is the
// new row, OldRecord the previous version (may be empty on inserts).
type RowChange struct {
	Table     string          `json:"table"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// Handler processes one row transition and returns a human-readable outcome.
type Handler func(ctx context.Context, change RowChange) (string, error)

// Dispatcher routes row changes to the handler registered for their table,
// independent of the transport that delivered them.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(table string, h Handler) {
	d.handlers[table] = h
}

// Handles reports whether a handler is registered for the table.
func (d *Dispatcher) Handles(table string) bool {
	_, ok := d.handlers[table]
	return ok
}

func (d *Dispatcher) Dispatch(ctx context.Context, change RowChange) (string, error) {
	h, ok := d.handlers[change.Table]
	if !ok {
		return fmt.Sprintf("no handler for table %s, ignored", change.Table), nil
	}
	return h(ctx, change)
}
