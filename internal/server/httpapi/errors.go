package httpapi

import (
	"errors"
	"net/http"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/gin-gonic/gin"
)

// errorKind maps a domain error to its wire kind and HTTP status. The
// HTTP layer is the only place status codes exist.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorInvalidUser):
		return http.StatusBadRequest, "invalid_user"
	case errors.Is(err, common.ErrorInvalidPayload):
		return http.StatusBadRequest, "invalid_payload"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrorAlreadyPaired):
		return http.StatusConflict, "already_paired"
	case errors.Is(err, common.ErrorPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, kind := errorKind(err)

	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		// internal details stay out of the response body
		c.JSON(status, gin.H{"error": kind, "message": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": kind, "message": err.Error()})
}
