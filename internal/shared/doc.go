// Package shared holds the sentinel errors and the Kind marker that storage
// and handler code use to categorise failures. It knows nothing about HTTP.
//
// A failure that belongs to a known category is marked once, close to where
// it happens:
//
//	if errors.Is(err, sql.ErrNoRows) {
//	    return shared.MarkKind(err, shared.KindNotFound)
//	}
//
// After that KindOf(err) reports KindNotFound and errors.Is(err, sql.ErrNoRows)
// still holds. When errors.Join combines several marked errors, KindOf picks
// cancellation first, then timeouts, then client kinds, then server kinds.
//
// Messages of marked errors are for logs only. Callers get the canonical
// message of the status the kind maps to.
package shared
