package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companysite/internal/pkg/jwt"
)

const (
	CookieName  = "site_session"
	identityKey = "identity"
)

// Manager reads and writes the signed session cookie.
type Manager struct {
	tokens *jwt.Service
	secure bool
}

func NewManager(tokens *jwt.Service, secure bool) *Manager {
	return &Manager{tokens: tokens, secure: secure}
}

// Load returns the identity stored in the request cookie. Missing, expired
// or tampered cookies yield the anonymous identity.
func (m *Manager) Load(c *gin.Context) Identity {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return Identity{}
	}
	claims, err := m.tokens.ValidateToken(raw)
	if err != nil {
		return Identity{}
	}

	switch Kind(claims.Kind) {
	case KindAdmin:
		return Admin(claims.Username)
	case KindUser:
		if claims.UserID <= 0 {
			return Identity{}
		}
		return User(claims.UserID, claims.Username, claims.Role, claims.EmployeeID)
	default:
		return Identity{}
	}
}

// Save replaces the session with id and exposes it to the rest of the request.
func (m *Manager) Save(c *gin.Context, id Identity) error {
	token, err := m.tokens.GenerateToken(jwt.Claims{
		Kind:       string(id.Kind),
		UserID:     id.UserID,
		Username:   id.Username,
		Role:       id.Role,
		EmployeeID: id.EmployeeID,
	})
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.tokens.TTL().Seconds()), "/", "", m.secure, true)
	Set(c, id)
	return nil
}

// Clear drops the session cookie.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	Set(c, Identity{})
}

// Set stores id on the gin context for handlers further down the chain.
func Set(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// Current returns the identity attached by the session middleware.
func Current(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
