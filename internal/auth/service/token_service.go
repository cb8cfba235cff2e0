package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/digital-codes/platansense/internal/auth/domain"
	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// sensorClaims extends the registered claim set with the custom claims the
// devices and the download gateway rely on.
type sensorClaims struct {
	// Sensor carries the namespaced device identity for authorization
	// decisions after validation.
	Sensor string `json:"sensor"`
	// Model is carried for forward compatibility with device variants.
	Model string `json:"model"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService with HMAC-SHA256 signed JWTs.
type tokenService struct {
	signingKey []byte
	relatedTo  string
	issuedBy   string
	now        func() time.Time
}

// NewTokenService creates a TokenService. relatedTo is the audience-subject
// (sub claim) and issuedBy the issuer (iss claim) shared by all instances
// validating each other's tokens.
func NewTokenService(signingKey []byte, relatedTo, issuedBy string) TokenService {
	return &tokenService{
		signingKey: signingKey,
		relatedTo:  relatedTo,
		issuedBy:   issuedBy,
		now:        time.Now,
	}
}

// Issue creates a signed token bound to the given namespaced identity.
func (t *tokenService) Issue(identifiedBy string) (string, error) {
	now := t.now()

	claims := sensorClaims{
		Sensor: identifiedBy,
		Model:  "any",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuedBy,
			Subject:   t.relatedTo,
			ID:        identifiedBy,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(domain.TokenNotBeforeDelay)),
			ExpiresAt: jwt.NewNumericDate(now.Add(domain.TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Validate checks the token in full and returns the bound identity. The
// caller must not distinguish failure causes toward the device; every
// failure path returns ErrUnauthorized.
func (t *tokenService) Validate(
	tokenString, identifiedBy string,
) (*domain.TokenIdentity, error) {
	claims := &sensorClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return t.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuedBy),
		jwt.WithSubject(t.relatedTo),
		jwt.WithLeeway(domain.TokenLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err.Error())
	}

	// jti binds the token to one device identity; the parser does not check it.
	if claims.ID != identifiedBy {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token identity mismatch")
	}
	if claims.Sensor == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token missing sensor claim")
	}

	return &domain.TokenIdentity{
		IdentifiedBy: claims.ID,
		Sensor:       claims.Sensor,
	}, nil
}
