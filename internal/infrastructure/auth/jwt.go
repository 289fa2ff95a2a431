package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meidasupport/supportdesk/internal/application/user/usecases"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("unexpected token type")
)

// Claims carries the user id in the subject claim.
type Claims struct {
	SessionID   string    `json:"sid,omitempty"`
	TokenType   TokenType `json:"typ"`
	Fingerprint string    `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type JWTService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

var _ usecases.TokenService = (*JWTService)(nil)

func NewJWTService(secret, issuer string, accessTTL, refreshTTL, resetTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

func (s *JWTService) sign(userID uint, typ TokenType, ttl time.Duration, sessionID, fingerprint string) (string, error) {
	now := biztime.NowUTC()
	claims := &Claims{
		SessionID:   sessionID,
		TokenType:   typ,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			// A unique id keeps two tokens minted in the same second distinct.
			ID: strconv.FormatInt(now.UnixNano(), 36),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *JWTService) Generate(userID uint, sessionID string) (*usecases.TokenPair, error) {
	access, err := s.sign(userID, TokenTypeAccess, s.accessTTL, sessionID, "")
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, TokenTypeRefresh, s.refreshTTL, sessionID, "")
	if err != nil {
		return nil, err
	}
	return &usecases.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Verify checks the signature, expiry and type of tokenString.
func (s *JWTService) Verify(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// VerifyAccess returns the user and session of a valid access token.
func (s *JWTService) VerifyAccess(tokenString string) (uint, string, error) {
	claims, err := s.Verify(tokenString, TokenTypeAccess)
	if err != nil {
		return 0, "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, "", err
	}
	return userID, claims.SessionID, nil
}

func (s *JWTService) ParseRefresh(tokenString string) (*usecases.RefreshClaims, error) {
	claims, err := s.Verify(tokenString, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return &usecases.RefreshClaims{UserID: userID, SessionID: claims.SessionID}, nil
}

func (s *JWTService) GeneratePasswordReset(userID uint, fingerprint string) (string, error) {
	return s.sign(userID, TokenTypePasswordReset, s.resetTTL, "", fingerprint)
}

func (s *JWTService) ParsePasswordReset(tokenString string) (uint, string, error) {
	claims, err := s.Verify(tokenString, TokenTypePasswordReset)
	if err != nil {
		return 0, "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, "", err
	}
	return userID, claims.Fingerprint, nil
}

// AccessTTL is used for the access cookie max age.
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *JWTService) RefreshTTL() time.Duration {
	return s.refreshTTL
}
