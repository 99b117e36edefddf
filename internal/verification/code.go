// Package verification implements the one-time email code lifecycle:
// issue, check, invalidate. Only a SHA-256 of the code and an expiry
// timestamp are ever stored; the plaintext exists just long enough to be
// mailed out.
package verification

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/Opeso2580/eduplatform/internal/model"
)

// DefaultValidity is how long an issued code stays usable.
const DefaultValidity = 10 * time.Minute

const codeSpace = 1000000 // 6 decimal digits, 000000-999999

// Engine issues and checks verification codes against a user record.
// It never persists anything itself; callers save the mutated user.
type Engine struct {
	validity time.Duration
	now      func() time.Time
}

// NewEngine returns an Engine with the given validity window.
// A non-positive validity falls back to DefaultValidity.
func NewEngine(validity time.Duration) *Engine {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Engine{validity: validity, now: time.Now}
}

// IssueCode generates a uniform random 6-digit code, stores its hash and
// expiry on the user, and returns the plaintext for delivery. Issuing a
// new code overwrites and thereby invalidates any previous one.
func (e *Engine) IssueCode(user *model.User) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	expires := e.now().Add(e.validity)
	user.VerificationCodeHash = hashCode(code)
	user.VerificationCodeExpiresAt = &expires
	return code, nil
}

// CheckCode reports whether candidate matches the stored, unexpired code.
// It does not mutate the user; callers invalidate after a successful check.
// An expired code fails even when the hash matches.
func (e *Engine) CheckCode(user *model.User, candidate string) bool {
	if user.VerificationCodeExpiresAt == nil {
		return false
	}
	if e.now().After(*user.VerificationCodeExpiresAt) {
		return false
	}
	// Constant-time compare to avoid a timing side channel on the digest.
	return subtle.ConstantTimeCompare(
		[]byte(hashCode(candidate)),
		[]byte(user.VerificationCodeHash),
	) == 1
}

// Invalidate clears the stored code material after a successful verification.
func (e *Engine) Invalidate(user *model.User) {
	user.VerificationCodeHash = ""
	user.VerificationCodeExpiresAt = nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
