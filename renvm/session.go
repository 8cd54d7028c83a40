package renvm

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/renbridge/ren-sdk-go/common"
)

const (
	// DefaultSessionLifetime bounds how long a single gateway address is
	// considered safe to deposit to.
	DefaultSessionLifetime = 36 * time.Hour

	sessionDayLength = 24 * time.Hour
)

// Session is a time-boxed deposit window. Its nonce seeds the gateway
// address derivation, so sessions created on the same calendar day reuse the
// same gateway address. Never mutated after creation, replaced when expired.
type Session struct {
	// DestinationAddress is the recipient address on the destination chain
	DestinationAddress string      `json:"destinationAddress"`
	Nonce              common.Hash `json:"nonce"`
	CreatedAt          time.Time   `json:"createdAt"`
	EndAt              time.Time   `json:"endAt"`
}

type SessionOption func(*Session)

// WithNonce forces an explicit nonce instead of the day-derived one,
// producing a fresh gateway address regardless of the calendar day.
func WithNonce(nonce common.Hash) SessionOption {
	return func(s *Session) {
		s.Nonce = nonce
	}
}

func WithEndAt(endAt time.Time) SessionOption {
	return func(s *Session) {
		s.EndAt = endAt
	}
}

func NewSession(destinationAddress string, createdAt time.Time, opts ...SessionOption) (Session, error) {
	session := Session{
		DestinationAddress: destinationAddress,
		Nonce:              SessionNonce(createdAt),
		CreatedAt:          createdAt,
		EndAt:              createdAt.Add(DefaultSessionLifetime),
	}

	for _, opt := range opts {
		opt(&session)
	}

	if !session.EndAt.After(session.CreatedAt) {
		return Session{}, fmt.Errorf("session end %s is not after creation %s",
			session.EndAt, session.CreatedAt)
	}

	return session, nil
}

// IsValid checks expiration against the wall clock, so an expired session is
// detected on the next check even mid-run.
func (s Session) IsValid() bool {
	return time.Now().Before(s.EndAt)
}

// SessionNonce derives the deterministic nonce for the calendar day of t:
// the lowercase hex rendering of the day count since the epoch, right
// aligned in a field of ASCII spaces.
func SessionNonce(t time.Time) common.Hash {
	day := t.Unix() / int64(sessionDayLength/time.Second)
	dayHex := fmt.Sprintf("%x", day)

	var nonce common.Hash

	for i := range nonce {
		nonce[i] = ' '
	}

	copy(nonce[common.HashSize-len(dayHex):], dayHex)

	return nonce
}

// NonceHex renders the nonce the way it crosses the wire.
func (s Session) NonceHex() string {
	return hex.EncodeToString(s.Nonce[:])
}
