// Package repository narrows MongoDB documents into the models types. Each
// repository owns one collection.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a write or lookup matches no document
var ErrNotFound = errors.New("document not found")

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// decodeAll drains cur into a typed slice
func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}
	return out, nil
}
