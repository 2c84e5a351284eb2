package shared

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrInternal          = errors.New("internal error")
	ErrTimeout           = errors.New("operation timed out")
	ErrUnavailable       = errors.New("unavailable")
	ErrInvariantViolated = errors.New("invariant violated")
	ErrDependencyFailure = errors.New("dependency failure")
)

// Kind is the coarse category of a failure. The error classifier maps each
// kind onto an HTTP status.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindRateLimited
	KindInternal
	KindTimeout
	KindUnavailable
	KindInvariantViolated
	KindDependencyFailure
	// KindCanceled has no sentinel; it is derived from context.Canceled.
	KindCanceled
)

type kindInfo struct {
	name     string
	sentinel error
}

var kinds = [...]kindInfo{
	KindUnknown:           {"Unknown", nil},
	KindNotFound:          {"NotFound", ErrNotFound},
	KindValidation:        {"Validation", ErrValidation},
	KindUnauthorized:      {"Unauthorized", ErrUnauthorized},
	KindForbidden:         {"Forbidden", ErrForbidden},
	KindConflict:          {"Conflict", ErrConflict},
	KindRateLimited:       {"RateLimited", ErrRateLimited},
	KindInternal:          {"Internal", ErrInternal},
	KindTimeout:           {"Timeout", ErrTimeout},
	KindUnavailable:       {"Unavailable", ErrUnavailable},
	KindInvariantViolated: {"InvariantViolated", ErrInvariantViolated},
	KindDependencyFailure: {"DependencyFailure", ErrDependencyFailure},
	KindCanceled:          {"Canceled", nil},
}

func (k Kind) info() kindInfo {
	if k < 0 || int(k) >= len(kinds) {
		return kinds[KindUnknown]
	}
	return kinds[k]
}

func (k Kind) String() string { return k.info().name }

// precedence decides which kind wins when a joined error carries several
// markers. Cancellation and timeouts come first, then caller mistakes, then
// server side trouble.
var precedence = []Kind{
	KindCanceled,
	KindTimeout,
	KindNotFound,
	KindValidation,
	KindUnauthorized,
	KindForbidden,
	KindConflict,
	KindRateLimited,
	KindUnavailable,
	KindDependencyFailure,
	KindInternal,
	KindInvariantViolated,
}

func (k Kind) matches(err error) bool {
	switch k {
	case KindCanceled:
		return IsCanceled(err)
	case KindTimeout:
		return IsTimeout(err)
	}
	s := k.info().sentinel
	return s != nil && errors.Is(err, s)
}

// KindOf walks err's chain and returns the first kind in precedence order it
// carries, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range precedence {
		if k.matches(err) {
			return k
		}
	}
	return KindUnknown
}

// SentinelOf returns the sentinel behind kind. KindUnknown and KindCanceled
// have none.
func SentinelOf(kind Kind) error {
	return kind.info().sentinel
}

// MarkKind tags err with kind so KindOf reports it, keeping err reachable
// through errors.Is and errors.As.
//
//	if errors.Is(err, sql.ErrNoRows) {
//	    return shared.MarkKind(err, shared.KindNotFound)
//	}
//
// A nil err yields the bare sentinel. Kinds without a sentinel, or an err
// that already resolves to kind, come back untouched.
func MarkKind(err error, kind Kind) error {
	sentinel := SentinelOf(kind)
	switch {
	case err == nil:
		return sentinel
	case sentinel == nil, KindOf(err) == kind:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Wrap prefixes err with msg. Nil stays nil and an empty msg is a no-op.
func Wrap(err error, msg string) error {
	if err == nil || msg == "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsTimeout covers context.DeadlineExceeded, ErrTimeout and any net.Error
// reporting Timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
