package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Service signs and validates guest-session tokens. A token scopes one guest
// identity to one camera.
type Service struct {
	secret []byte
	ttl    time.Duration
}

type GuestClaims struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	CameraID  string `json:"camera_id"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) GenerateGuestToken(ownerID, ownerName, cameraID string) (string, error) {
	claims := GuestClaims{
		OwnerID:   ownerID,
		OwnerName: ownerName,
		CameraID:  cameraID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*GuestClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &GuestClaims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*GuestClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
