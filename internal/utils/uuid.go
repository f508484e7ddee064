package utils

import "github.com/google/uuid"

// IDGenerator produces identifiers for queued requests.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-ordered UUIDv7 identifiers, so IDs of queued
// requests sort roughly in enqueue order.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate implements IDGenerator. It falls back to a random v4 UUID when
// a v7 UUID cannot be produced.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
