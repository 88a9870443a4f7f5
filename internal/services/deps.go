package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// TokenGenerator returns fresh bearer token material.
type TokenGenerator func() (string, error)

// IDGenerator returns a new opaque record id.
type IDGenerator func() string

// EventPublisher receives domain events after a successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// RandomToken returns 32 random bytes, hex encoded (64 characters).
func RandomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Deps are the collaborators shared by all services. Zero fields fall back to
// the system clock, crypto/rand tokens, uuid ids and no event publishing.
type Deps struct {
	Clock    Clock
	NewToken TokenGenerator
	NewID    IDGenerator
	Events   EventPublisher
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.NewToken == nil {
		d.NewToken = RandomToken
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}
