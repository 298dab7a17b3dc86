package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
)

// respondError 統一把 service 錯誤轉成 HTTP 回應
// internal/partial write 細節只進 log，不回給 client
func respondError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
		return
	}

	status := statusOf(appErr.Code)
	if status == http.StatusInternalServerError {
		log.Error().Err(appErr).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "something went wrong, please try again"})
		return
	}

	body := gin.H{"error": appErr.Detail}
	if len(appErr.Items) > 0 {
		body["items"] = appErr.Items
	}
	c.JSON(status, body)
}

func statusOf(code apperr.Code) int {
	switch code {
	case apperr.ValidationCode:
		return http.StatusBadRequest
	case apperr.ConflictCode:
		return http.StatusConflict
	case apperr.NotFoundCode, apperr.StockCode:
		return http.StatusNotFound
	case apperr.ForbiddenCode:
		return http.StatusForbidden
	case apperr.StateCode:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
