package httpapi

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/billfinity/backoffice/internal/auth"
	userdomain "github.com/billfinity/backoffice/internal/domains/users/domain"
	userports "github.com/billfinity/backoffice/internal/domains/users/ports"
	apierrors "github.com/billfinity/backoffice/internal/shared/errors"
)

const contextKeyUser = "httpapi.current_user"

// authMiddleware authenticates requests with a Bearer access token. With
// AuthDisabled set the middleware instead resolves a default active account,
// which keeps local development and demos free of a login step.
func authMiddleware(issuer *auth.Issuer, users userports.Service, authDisabled bool, responder *apierrors.Responder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authDisabled {
			user, err := users.EnsureDefaultUser(c.Request.Context())
			if err != nil {
				logger.Error("failed to resolve default user", slog.String("error", err.Error()))
				responder.Respond(c, apierrors.ErrInternal.WithDetail("failed to resolve default user"))
				c.Abort()
				return
			}
			c.Set(contextKeyUser, user)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired token"))
			c.Abort()
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil || !user.IsActive {
			responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("account not found or inactive"))
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// currentUser returns the authenticated account set by authMiddleware.
func currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(contextKeyUser)
	if !ok {
		return nil
	}
	user, _ := value.(*userdomain.User)
	return user
}
