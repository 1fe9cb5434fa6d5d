package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/devevent/internal/config"
)

// AuthService installs the Clerk secret key. The SDK keeps the key
// globally, so it must be built before the router serves POST /api/events.
type AuthService struct {
	keySet bool
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	clerk.SetKey(cfg.SecretKey)
	return &AuthService{keySet: cfg.SecretKey != ""}
}

// Ready reports whether organizer sessions can be verified.
func (a *AuthService) Ready() bool {
	return a != nil && a.keySet
}
