package agent

import (
	"math/big"

	"github.com/google/uuid"
)

// NewID returns a fresh 128-bit random identity rendered in base 62.
func NewID() string {
	u := uuid.New()
	return new(big.Int).SetBytes(u[:]).Text(62)
}
