package types

import "github.com/google/uuid"

// Uuid identifies elections, questions and voters throughout the schema
// (spec §6.3).
type Uuid = uuid.UUID

// NewUuid generates a fresh random identifier.
func NewUuid() Uuid {
	return uuid.New()
}

// CollectorPublicKey is the (n, b) pair a collector publishes at the start
// of a verification session (spec §6.2 PublicKey message, §4.2).
type CollectorPublicKey struct {
	N *BigInt `json:"n"`
	B *BigInt `json:"b"`
}
