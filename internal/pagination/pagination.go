// Package pagination implements the cursor-based pagination discipline
// shared by every list endpoint. Pages are keyed on ascending entity IDs
// (version-7 UUIDs, so ID order is creation order), continuation is an
// opaque token echoing the last-seen ID, and the whole pagination state
// lives in that token; the server stores nothing between requests.
package pagination

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Limit clamping bounds. Out-of-range limits are silently clamped, never
// rejected.
const (
	// DefaultLimit applies when the caller passes no limit or a
	// non-positive one.
	DefaultLimit = 20

	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 50
)

// ClampLimit normalizes a caller-supplied page size: non-positive values
// fall back to DefaultLimit and values above MaxLimit are capped.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeToken builds the opaque continuation token for the given ID.
func EncodeToken(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeToken parses a continuation token back into the ID it encodes.
// The boolean is false for empty or undecodable tokens; callers treat
// those as an absent cursor rather than an error, so a garbled token
// degrades to the first page. A token that decodes to an ID matching no
// row is not detected here; the fetch simply filters on id > token and
// returns whatever matches.
func DecodeToken(token string) (uuid.UUID, bool) {
	if token == "" {
		return uuid.Nil, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(string(raw))
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// Page is one bounded slice of a filtered collection.
type Page[T any] struct {
	// Items holds at most the clamped limit of entries, in ascending ID
	// order.
	Items []T `json:"items"`

	// NextCursor continues the listing after the last item. Empty on the
	// final page.
	NextCursor string `json:"next_cursor,omitempty"`

	// Total is the number of entries matching the filter regardless of
	// cursor position; it does not shrink as the caller pages forward.
	Total int `json:"total"`
}

// Source is the query surface a store exposes for one filtered listing.
// FetchAfter must return rows in ascending ID order, strictly after
// afterID (uuid.Nil means from the start), and at most limit of them.
type Source[T any] interface {
	FetchAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]T, error)
	Count(ctx context.Context) (int, error)
	ID(item T) uuid.UUID
}

// Paginate produces one page of src. It fetches one row beyond the
// clamped limit; the overflow row is how a further page is detected
// without a second query, and is trimmed before the page is returned.
func Paginate[T any](ctx context.Context, src Source[T], cursor string, limit int) (*Page[T], error) {
	effective := ClampLimit(limit)

	afterID := uuid.Nil
	if id, ok := DecodeToken(cursor); ok {
		afterID = id
	}

	items, err := src.FetchAfter(ctx, afterID, effective+1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}

	page := &Page[T]{Total: total}
	if len(items) > effective {
		items = items[:effective]
		page.NextCursor = EncodeToken(src.ID(items[len(items)-1]))
	}
	page.Items = items

	return page, nil
}
