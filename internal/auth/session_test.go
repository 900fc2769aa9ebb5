package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wedding/site/internal/guard"
	"wedding/site/internal/model"
)

func TestSessionRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, Get(c))
	var anonymous *Session
	assert.Equal(t, guard.Subject{}, anonymous.Subject())
	assert.False(t, anonymous.IsAdmin())

	s := NewSession(&model.Profile{ID: uuid.New(), Email: "a@b.c", Role: model.RoleAdmin})
	Set(c, s)

	got := Get(c)
	assert.Same(t, s, got)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, guard.Subject{HasSession: true, Role: model.RoleAdmin}, got.Subject())
}
