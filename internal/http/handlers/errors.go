package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoplanner-backend/internal/http/response"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

func respondServiceError(c *gin.Context, err error) {
	ae := services.ToAPIError(err)
	response.RespondError(c, ae.Status, ae.Code, ae.Err)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}
