package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// resolveActor maps the authenticated subject to a directory user with a
// validated role. On failure it writes the HTTP error response itself and
// returns nil; callers just return.
func resolveActor(c *gin.Context, userService portssvc.UserSvcFacade) *domain.User {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil
	}

	user, err := userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authenticated user not in directory", slog.String("user_id", userID))
			c.JSON(http.StatusForbidden, gin.H{"error": "User not recognized"})
			return nil
		}
		logger.Error("Failed to resolve user", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
		return nil
	}
	return user
}
