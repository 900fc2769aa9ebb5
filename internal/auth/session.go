// Package auth carries the per-request session resolved by the session
// middleware. A Session lives for one request only.
package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wedding/site/internal/guard"
	"wedding/site/internal/model"
)

const contextKey = "wedding.session"

type Session struct {
	ProfileID uuid.UUID
	Email     string
	FullName  string
	Role      model.Role
}

func NewSession(p *model.Profile) *Session {
	return &Session{
		ProfileID: p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
	}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// Subject converts the session, which may be nil, for the route guard.
func (s *Session) Subject() guard.Subject {
	if s == nil {
		return guard.Subject{}
	}
	return guard.Subject{HasSession: true, Role: s.Role}
}

func Set(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// Get returns the request's session, or nil when the visitor is anonymous.
func Get(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
