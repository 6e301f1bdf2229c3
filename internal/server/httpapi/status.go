package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/common"
)

// statusFromError maps a sentinel error to an HTTP status code.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrShareNotFound),
		errors.Is(err, common.ErrNoActiveShare):
		return http.StatusNotFound
	case errors.Is(err, common.ErrNotOwned):
		return http.StatusForbidden
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, common.ErrNameConflict),
		errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrNonEmpty),
		errors.Is(err, common.ErrWouldCreateCycle),
		errors.Is(err, common.ErrUserHasContent):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the JSON error envelope for err. Internal details never leak:
// a 500 carries a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
