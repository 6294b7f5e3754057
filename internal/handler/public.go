package handler

import (
	"net/http"

	"neighborly-backend/config"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct{}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, config.AppConfig.Site)
}
