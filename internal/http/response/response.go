package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: msg, Code: code})
}

// RespondOK writes payload with "success": true merged in.
func RespondOK(c *gin.Context, payload gin.H) {
	RespondStatus(c, http.StatusOK, payload)
}

func RespondStatus(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	c.JSON(status, payload)
}
