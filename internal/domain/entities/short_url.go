package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShortURL maps a short code to a long URL for one owner
type ShortURL struct {
	ID        uuid.UUID `json:"id"`
	ShortCode string    `json:"shortUrl"`
	LongURL   string    `json:"longUrl"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateShortURLInput represents input for creating a mapping.
// ShortURL is generated when empty.
type CreateShortURLInput struct {
	ShortURL string `json:"shortUrl" binding:"omitempty,max=64,shortcode"`
	LongURL  string `json:"longUrl" binding:"required,url"`
}

// UpdateShortURLInput represents a partial mapping update
type UpdateShortURLInput struct {
	ShortURL *string `json:"shortUrl" binding:"omitempty,min=1,max=64,shortcode"`
	LongURL  *string `json:"longUrl" binding:"omitempty,url"`
}

// IsEmpty reports whether no field was provided
func (in UpdateShortURLInput) IsEmpty() bool {
	return in.ShortURL == nil && in.LongURL == nil
}

// reservedShortCodes would shadow the fixed /url/... routes
var reservedShortCodes = map[string]struct{}{
	"list":          {},
	"show-long-url": {},
	"update":        {},
	"delete":        {},
}

// IsReservedShortCode reports whether code collides with a fixed route segment
func IsReservedShortCode(code string) bool {
	_, ok := reservedShortCodes[strings.ToLower(code)]
	return ok
}

// IsValidShortCode reports whether code is non-reserved and uses only
// letters, digits, '-' and '_'
func IsValidShortCode(code string) bool {
	if code == "" || IsReservedShortCode(code) {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
