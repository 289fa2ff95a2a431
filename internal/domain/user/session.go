package user

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

// SessionToken records one issued refresh token. Only its hash is stored.
// Sessions produced by rotating the same login share a FamilyID.
type SessionToken struct {
	ID               string
	FamilyID         string
	UserID           uint
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	ExpiresAt        time.Time
	Revoked          bool
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

func NewSessionToken(userID uint, userAgent, ipAddress string, expiresAt time.Time) (*SessionToken, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	id := uuid.NewString()
	return &SessionToken{
		ID:        id,
		FamilyID:  id,
		UserID:    userID,
		UserAgent: truncate(userAgent, 512),
		IPAddress: truncate(ipAddress, 45),
		ExpiresAt: expiresAt,
		CreatedAt: biztime.NowUTC(),
	}, nil
}

// ContinueFamily marks the session as the rotation successor of prev.
func (s *SessionToken) ContinueFamily(prev *SessionToken) {
	if prev == nil {
		return
	}
	s.FamilyID = prev.FamilyID
	if s.FamilyID == "" {
		s.FamilyID = prev.ID
	}
}

// AttachRefreshToken stores the hash of the signed refresh token.
func (s *SessionToken) AttachRefreshToken(token string) {
	s.RefreshTokenHash = HashToken(token)
}

func (s *SessionToken) IsValid() bool {
	return !s.Revoked && biztime.NowUTC().Before(s.ExpiresAt)
}

// Matches reports whether token is the refresh token issued for this session.
func (s *SessionToken) Matches(token string) bool {
	return s.RefreshTokenHash != "" && s.RefreshTokenHash == HashToken(token)
}

func (s *SessionToken) Revoke() {
	if s.Revoked {
		return
	}
	now := biztime.NowUTC()
	s.Revoked = true
	s.RevokedAt = &now
}

// HashToken is the sha256 hex of a token. Refresh tokens are long random JWTs, so a fast hash is enough.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
