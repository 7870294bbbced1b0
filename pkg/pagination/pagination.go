package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when a listing request names none.
	DefaultLimit = 25
	// MaxLimit caps any single page of products, orders, or users.
	MaxLimit = 100
)

// Params carries the limit and opaque cursor from a listing request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks where the previous page ended. Listings order by
// (created_at, id) descending, so both columns are needed to resume.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// cursorPayload is the serialized cursor. The field names are part of the
// token contract once a cursor has been handed to a client.
type cursorPayload struct {
	CreatedAt time.Time `json:"t"`
	ID        uuid.UUID `json:"id"`
}

// NormalizeLimit clamps a requested limit into the allowed range.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer adds the extra row repositories fetch to detect a next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders a cursor as a URL-safe token.
func EncodeCursor(cursor Cursor) string {
	raw, err := json.Marshal(cursorPayload{CreatedAt: cursor.CreatedAt.UTC(), ID: cursor.ID})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ParseCursor decodes a client-supplied token. Blank input means the first
// page; anything undecodable is rejected rather than silently restarted.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if payload.ID == uuid.Nil || payload.CreatedAt.IsZero() {
		return nil, fmt.Errorf("incomplete cursor")
	}
	return &Cursor{CreatedAt: payload.CreatedAt, ID: payload.ID}, nil
}
