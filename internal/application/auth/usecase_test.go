package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/namistock-host/internal/application/auth"
	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/pkg/jwt"
)

func testConfig(t *testing.T) auth.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.Config{
		Operator:     "operador",
		PasswordHash: string(hash),
		JWTSecret:    "clave-de-prueba",
		JWTIssuer:    "namistock-host",
		ExpMinutes:   60,
	}
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc := auth.NewUseCase(testConfig(t))

	token, err := uc.Login("operador", "secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	operator, err := jwt.Parse("clave-de-prueba", token)
	require.NoError(t, err)
	assert.Equal(t, "operador", operator)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewUseCase(testConfig(t))

	_, err := uc.Login("operador", "otra-clave")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login("otro-usuario", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_SinHashConfigurado(t *testing.T) {
	// Sin AUTH_PASSWORD_HASH el login queda deshabilitado por completo.
	uc := auth.NewUseCase(auth.Config{Operator: "operador"})

	_, err := uc.Login("operador", "lo-que-sea")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParse_RechazaFirmaAjena(t *testing.T) {
	token, err := jwt.Generate("clave-a", "operador", "namistock-host", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("clave-b", token)
	assert.Error(t, err)
}
