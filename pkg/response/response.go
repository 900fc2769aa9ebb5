// Package response writes the JSON envelope shared by every /api route.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope. Code is 0 on success and mirrors the HTTP
// status on failure.
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Message: "ok", Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Message: message, Data: data})
}

// Fail writes a failure envelope for status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Code: status, Message: message})
}

// Abort is Fail for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, APIResponse{Code: status, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}
