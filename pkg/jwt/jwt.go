package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// leeway tolerancia de reloj entre el emisor de tokens y esta API.
const leeway = 30 * time.Second

// Claims emitidos por el servicio de autenticación. Esta API solo los valida.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id,omitempty"` // solo usuarios EMPRESA
	Role      string `json:"role"`                 // SUPER_ADMIN | ADMIN | GESTOR_EMPRESAS | EMPRESA
}

// Identity lo que el middleware necesita de un token válido.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// Generate firma un token HS256. Se usa en tests y herramientas locales; en producción
// los tokens los emite el servicio de autenticación.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseIdentity valida firma HS256 y expiración. Si user_id viene vacío se usa sub.
func ParseIdentity(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{UserID: claims.UserID, CompanyID: claims.CompanyID, Role: claims.Role}
	if id.UserID == "" {
		id.UserID = claims.Subject
	}
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("jwt: token sin usuario")
	}
	return id, nil
}

// Parse atajo de ParseIdentity que devuelve los campos por separado.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	id, err := ParseIdentity(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	return id.UserID, id.CompanyID, id.Role, nil
}
