package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/pkg/jwt"
)

// Config credenciales y parámetros de emisión de tokens.
type Config struct {
	Operator     string
	PasswordHash string // bcrypt
	JWTSecret    string
	JWTIssuer    string
	ExpMinutes   int
}

// UseCase autentica al operador único del host y emite el JWT de sesión.
type UseCase struct {
	cfg Config
}

// NewUseCase construye el caso de uso.
func NewUseCase(cfg Config) *UseCase {
	return &UseCase{cfg: cfg}
}

// Login compara las credenciales contra el hash bcrypt configurado y, si
// coinciden, devuelve un token firmado. Cualquier discrepancia devuelve
// ErrUnauthorized sin detallar cuál campo falló.
func (uc *UseCase) Login(operator, password string) (string, error) {
	if uc.cfg.PasswordHash == "" {
		return "", domain.ErrUnauthorized
	}
	if operator != uc.cfg.Operator {
		return "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.cfg.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return jwt.Generate(uc.cfg.JWTSecret, operator, uc.cfg.JWTIssuer, uc.cfg.ExpMinutes)
}
