package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cardwise/cardwise-api/internal/middleware"
	"github.com/cardwise/cardwise-api/internal/session"
)

func identityFromContext(c *gin.Context) *session.Identity {
	return middleware.CurrentIdentity(c)
}
