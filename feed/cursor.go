package feed

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"centremart/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadCursor is returned when an encoded cursor cannot be decoded
var ErrBadCursor = errors.New("malformed cursor")

// Cursor marks the last product of a page. Products are ordered by name,
// then id, so every product sits strictly before or after a cursor.
type Cursor struct {
	Name string             `json:"n"`
	ID   primitive.ObjectID `json:"i"`
}

// CursorOf returns the cursor positioned at p
func CursorOf(p models.Product) Cursor {
	return Cursor{Name: p.Name, ID: p.ID}
}

// Precedes reports whether p sorts after the cursor
func (c Cursor) Precedes(p models.Product) bool {
	if p.Name != c.Name {
		return p.Name > c.Name
	}
	return p.ID.Hex() > c.ID.Hex()
}

// Encode renders the cursor as an opaque URL-safe token
func (c Cursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses a token produced by Encode. An empty token means "from the start".
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.ID.IsZero() {
		return nil, ErrBadCursor
	}
	return &c, nil
}
