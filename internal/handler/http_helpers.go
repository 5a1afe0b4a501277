package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCardNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrSlugConflict),
		errors.Is(err, service.ErrCardAlreadyOpen),
		errors.Is(err, service.ErrCardNotPending):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrBodyRequired),
		errors.Is(err, service.ErrCommentInvalid),
		errors.Is(err, service.ErrUsernameInvalid),
		errors.Is(err, service.ErrEmailInvalid),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrCardNameRequired),
		errors.Is(err, service.ErrCardPhotoRequired),
		errors.Is(err, service.ErrCardReasonRequired):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, bool) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return uint(id), true
}

func parseIntQuery(c *gin.Context, key string) int {
	value, _ := strconv.Atoi(c.Query(key))
	return value
}
