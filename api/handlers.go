package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/auth"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
	"github.com/charles-oliveira/web-2/service"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	gateway *service.Gateway
	tokens  *auth.Tokens
	db      Pinger
	log     *logger.Logger
}

func NewHandler(gateway *service.Gateway, tokens *auth.Tokens, db Pinger, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{gateway: gateway, tokens: tokens, db: db, log: log.WithComponent(logger.ComponentHTTP)}
}

// AuthMiddleware resolves the bearer token into the caller identity.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			h.fail(c, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}
		id, err := h.tokens.Parse(token)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// scope returns the caller's scope; on failure the response is already
// written.
func (h *Handler) scope(c *gin.Context) (*service.Scope, bool) {
	id, _ := c.Get(identityKey)
	identity, _ := id.(models.Identity)
	s, err := h.gateway.For(identity)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Validation, apperr.DuplicateCategory, apperr.InvalidCategory:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.ReferentialConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as an error body. Unclassified errors are logged and
// hidden behind a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	msg := apperr.MessageOf(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			logger.FieldError, err, logger.FieldPath, c.FullPath())
		kind, msg = "internal_error", "internal server error"
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Kind: string(kind), Error: msg})
}

// bindJSON decodes the request body; malformed input is a validation error.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if apperr.KindOf(err) == apperr.Validation {
			h.fail(c, err)
		} else {
			h.fail(c, apperr.Wrap(apperr.Validation, err, "invalid request body: %v", err))
		}
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, apperr.New(apperr.Validation, "invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
