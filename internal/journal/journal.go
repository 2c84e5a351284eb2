// Package journal records failures the error classifier could not recognise,
// so the generic 500 returned to the caller can be traced back to its cause.
//
// The journal is an observability collaborator: recording is best effort and
// never changes the response of an invocation.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lambda-go-template/internal/httperr"
)

// Entry is one recorded failure.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"requestId"`
	Route      string    `json:"route"`
	ErrorType  string    `json:"errorType"`
	Message    string    `json:"message"`
	Stack      string    `json:"stack,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Recorder accepts failure entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Store is a Recorder that can also be read, pruned and closed.
type Store interface {
	Recorder
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Prune deletes entries older than before and reports how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("journal: unknown driver")
	// ErrMissingDSN is returned by Open when a storage driver has no DSN.
	ErrMissingDSN = errors.New("journal: dsn is required")
)

// NewEntry builds an entry for err. For a recovered panic the type and stack
// of the panic value are used.
func NewEntry(requestID, route string, err error) Entry {
	e := Entry{
		ID:         uuid.New(),
		RequestID:  requestID,
		Route:      route,
		OccurredAt: time.Now().UTC(),
	}
	if err == nil {
		e.ErrorType = "<nil>"
		e.Message = "<nil>"
		return e
	}

	e.ErrorType = fmt.Sprintf("%T", err)
	e.Message = err.Error()

	var perr *httperr.PanicError
	if errors.As(err, &perr) {
		e.ErrorType = fmt.Sprintf("panic(%T)", perr.Value)
		e.Stack = string(perr.Stack)
	}
	return e
}

// Nop discards entries. It is used when no journal driver is configured.
type Nop struct{}

var _ Store = Nop{}

func (Nop) Record(context.Context, Entry) error             { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error)    { return nil, nil }
func (Nop) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (Nop) Ping(context.Context) error                      { return nil }
func (Nop) Close() error                                    { return nil }
