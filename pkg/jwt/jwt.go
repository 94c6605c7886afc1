package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret se devuelve si se firma o valida sin JWT_SECRET.
	ErrNoSecret = errors.New("jwt: secret vacío")
	// ErrInvalidToken envuelve cualquier fallo de firma, expiración o formato.
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Claims del token de sesión de un usuario de empresa.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // admin | operador
}

// Generate firma un token HS256 para el usuario dentro de su empresa.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	issued := time.Now()
	expires := issued.Add(time.Duration(expMinutes) * time.Minute)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{companyID},
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}).SignedString([]byte(secret))
}

// Parse verifica firma y vigencia; sólo acepta HS256.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.CompanyID == "" {
		return nil, fmt.Errorf("%w: faltan user_id o company_id", ErrInvalidToken)
	}
	return claims, nil
}
