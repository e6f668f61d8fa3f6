package service

import (
	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/coopshop/billing-api/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues admin tokens against the configured operator
// credentials. There is no user table; the original application's session
// handling is out of scope.
type AuthService struct {
	adminCfg   *config.AdminConfig
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(adminCfg *config.AdminConfig, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		adminCfg:   adminCfg,
		jwtManager: jwtManager,
	}
}

// Login validates the operator credentials and returns a signed token.
// The actor id is derived deterministically from the email so audit
// entries stay stable across restarts.
func (s *AuthService) Login(emailAddr, password string) (string, error) {
	if s.adminCfg.Email == "" || s.adminCfg.PasswordHash == "" {
		return "", apperror.NewAppError(503, "Admin login is not configured")
	}
	if emailAddr != s.adminCfg.Email {
		return "", apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminCfg.PasswordHash), []byte(password)); err != nil {
		return "", apperror.ErrInvalidCredentials
	}

	actorID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(emailAddr))
	return s.jwtManager.GenerateToken(actorID, emailAddr)
}
