package tokens

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Sha256Hex is the key under which a token string is stored in the revocation ledger.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func NewJTI() string { return uuid.NewString() }
