package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secret", "user-1", "", "GESTOR_EMPRESAS", "prospectos-api", 5)
	require.NoError(t, err)

	userID, companyID, role, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Empty(t, companyID)
	assert.Equal(t, "GESTOR_EMPRESAS", role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := Generate("secret", "user-1", "c1", "ADMIN", "prospectos-api", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("otro", token)
	assert.Error(t, err)

	expired, err := Generate("secret", "user-1", "c1", "ADMIN", "prospectos-api", -1)
	require.NoError(t, err)
	_, _, _, err = Parse("secret", expired)
	assert.Error(t, err)

	_, err = Generate("", "user-1", "", "ADMIN", "x", 5)
	assert.Error(t, err)
}

func TestParseIdentity_SubjectComoUsuario(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}, Role: "ADMIN"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	id, err := ParseIdentity("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id.UserID)
	assert.Equal(t, "ADMIN", id.Role)
}

func TestParseIdentity_RechazaOtrosAlgoritmosYSinExpiracion(t *testing.T) {
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		UserID:           "u",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseIdentity("secret", hs512)
	assert.Error(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseIdentity("secret", noExp)
	assert.Error(t, err)
}
