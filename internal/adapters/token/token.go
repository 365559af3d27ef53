package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pethotel/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

type claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Service is the single collaborator that issues and validates sessions.
// Everything else receives a domain.Session explicitly.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Pair is an access/refresh token pair handed to the client on login.
type Pair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Service) Issue(u domain.User) (Pair, error) {
	now := time.Now()
	access, err := s.sign(u.ID, u.Role, typeAccess, now, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(u.ID, u.Role, typeRefresh, now, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(s.accessTTL)}, nil
}

func (s *Service) sign(userID int64, role, typ string, now time.Time, ttl time.Duration) (string, error) {
	c := claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ValidateAccess parses an access token into a Session.
func (s *Service) ValidateAccess(tokenString string) (domain.Session, error) {
	c, err := s.parse(tokenString, typeAccess)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{UserID: c.UserID, Role: c.Role}, nil
}

// ValidateRefresh parses a refresh token and returns the user it was issued to.
func (s *Service) ValidateRefresh(tokenString string) (int64, error) {
	c, err := s.parse(tokenString, typeRefresh)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func (s *Service) parse(tokenString, wantType string) (*claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || c.Type != wantType {
		return nil, ErrInvalidToken
	}
	return c, nil
}
