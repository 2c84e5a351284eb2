package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambda-go-template/internal/shared"
)

type dialTimeout struct{}

func (dialTimeout) Error() string   { return "i/o timeout" }
func (dialTimeout) Timeout() bool   { return true }
func (dialTimeout) Temporary() bool { return true }

func TestWrap(t *testing.T) {
	base := errors.New("disk full")

	assert.Nil(t, shared.Wrap(nil, "write entry"))
	assert.Same(t, base, shared.Wrap(base, ""))

	got := shared.Wrap(base, "write entry")
	require.Error(t, got)
	assert.EqualError(t, got, "write entry: disk full")
	assert.ErrorIs(t, got, base)
}

func TestKindNames(t *testing.T) {
	names := map[shared.Kind]string{
		shared.KindUnknown:           "Unknown",
		shared.KindNotFound:          "NotFound",
		shared.KindValidation:        "Validation",
		shared.KindUnauthorized:      "Unauthorized",
		shared.KindForbidden:         "Forbidden",
		shared.KindConflict:          "Conflict",
		shared.KindRateLimited:       "RateLimited",
		shared.KindInternal:          "Internal",
		shared.KindTimeout:           "Timeout",
		shared.KindUnavailable:       "Unavailable",
		shared.KindInvariantViolated: "InvariantViolated",
		shared.KindDependencyFailure: "DependencyFailure",
		shared.KindCanceled:          "Canceled",
		shared.Kind(-1):              "Unknown",
		shared.Kind(999):             "Unknown",
	}
	for k, want := range names {
		assert.Equal(t, want, k.String(), "kind %d", int(k))
	}
}

func TestKindOf_Sentinels(t *testing.T) {
	for _, k := range []shared.Kind{
		shared.KindNotFound, shared.KindValidation, shared.KindUnauthorized,
		shared.KindForbidden, shared.KindConflict, shared.KindRateLimited,
		shared.KindInternal, shared.KindTimeout, shared.KindUnavailable,
		shared.KindInvariantViolated, shared.KindDependencyFailure,
	} {
		t.Run(k.String(), func(t *testing.T) {
			s := shared.SentinelOf(k)
			require.NotNil(t, s)
			assert.Equal(t, k, shared.KindOf(s))
			assert.Equal(t, k, shared.KindOf(shared.Wrap(s, "lookup")))
		})
	}
}

func TestKindOf_Derived(t *testing.T) {
	assert.Equal(t, shared.KindUnknown, shared.KindOf(nil))
	assert.Equal(t, shared.KindUnknown, shared.KindOf(errors.New("boom")))
	assert.Equal(t, shared.KindTimeout, shared.KindOf(context.DeadlineExceeded))
	assert.Equal(t, shared.KindTimeout, shared.KindOf(fmt.Errorf("dial: %w", dialTimeout{})))
	assert.Equal(t, shared.KindCanceled, shared.KindOf(shared.Wrap(context.Canceled, "query")))
}

func TestKindOf_JoinPrecedence(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want shared.Kind
	}{
		{"timeout over not found", errors.Join(shared.ErrNotFound, shared.ErrTimeout), shared.KindTimeout},
		{"canceled over all", errors.Join(shared.ErrValidation, context.Canceled, shared.ErrTimeout), shared.KindCanceled},
		{"client over dependency", errors.Join(shared.ErrDependencyFailure, shared.ErrValidation), shared.KindValidation},
		{"dependency over internal", errors.Join(shared.ErrInternal, shared.ErrDependencyFailure), shared.KindDependencyFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shared.KindOf(tc.err))
		})
	}
}

func TestMarkKind(t *testing.T) {
	cause := errors.New("sql: no rows in result set")

	marked := shared.MarkKind(cause, shared.KindNotFound)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(marked))
	assert.ErrorIs(t, marked, cause)
	assert.EqualError(t, marked, "not found: sql: no rows in result set")

	again := shared.MarkKind(marked, shared.KindNotFound)
	assert.Same(t, marked, again)

	assert.Equal(t, shared.ErrConflict, shared.MarkKind(nil, shared.KindConflict))
	assert.Nil(t, shared.MarkKind(nil, shared.KindCanceled))
	assert.Same(t, cause, shared.MarkKind(cause, shared.KindUnknown))
	assert.Same(t, cause, shared.MarkKind(cause, shared.KindCanceled))
}

func TestSentinelOf_NoSentinel(t *testing.T) {
	assert.Nil(t, shared.SentinelOf(shared.KindUnknown))
	assert.Nil(t, shared.SentinelOf(shared.KindCanceled))
	assert.Nil(t, shared.SentinelOf(shared.Kind(42)))
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, shared.IsTimeout(nil))
	assert.False(t, shared.IsTimeout(errors.New("slow")))
	assert.True(t, shared.IsTimeout(shared.ErrTimeout))
	assert.True(t, shared.IsTimeout(context.DeadlineExceeded))
	assert.True(t, shared.IsTimeout(dialTimeout{}))
}

func TestIsCanceled(t *testing.T) {
	assert.False(t, shared.IsCanceled(nil))
	assert.True(t, shared.IsCanceled(fmt.Errorf("op: %w", context.Canceled)))
	assert.False(t, shared.IsCanceled(context.DeadlineExceeded))
}
