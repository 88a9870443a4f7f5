package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"groupchat/internal/observability"
	"groupchat/internal/services"
	"groupchat/internal/telemetry"
)

// base carries what every handler needs to report outcomes.
type base struct {
	audit *telemetry.AuditEmitter
	log   logrus.FieldLogger
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrNotAMember):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err and records it.
func (b base) fail(c *gin.Context, err error) {
	status := statusFor(err)
	kind := services.ErrorKind(err)
	observability.IncDomainError(kind)

	if status == http.StatusInternalServerError {
		if b.log != nil {
			b.log.WithError(err).WithField("request_id", requestIDFromContext(c)).Error("request failed")
		}
		b.emitAudit(c, "ERROR", "internal error")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	b.emitAudit(c, "ERROR", kind)
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(status, gin.H{"error": "validation failed", "details": validationErr.Violations})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (b base) badRequest(c *gin.Context, text string) {
	b.emitAudit(c, "ERROR", "invalid request payload")
	c.JSON(http.StatusBadRequest, gin.H{"error": text})
}

func (b base) emitAudit(c *gin.Context, level, text string) {
	if b.audit == nil {
		return
	}
	b.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
