package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/case_management_app/internal/apperrors"
	"github.com/SscSPs/case_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/case_management_app/internal/core/ports/services"
	"github.com/SscSPs/case_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler exposes the read-only user directory.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: userService}
}

// userResponse is the directory view of a user.
type userResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// getMe godoc
// @Summary Get the authenticated user's directory entry
// @Tags users
// @Produce  json
// @Success 200 {object} userResponse "The caller's user record"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "User not recognized"
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	actor := resolveActor(c, h.userService)
	if actor == nil {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(actor))
}

// getUser godoc
// @Summary Get a user's directory entry
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} userResponse "The user record"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to retrieve user"
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to get user", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// registerUserRoutes registers user directory routes.
func registerUserRoutes(group *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := group.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.GET("/:userID", h.getUser)
	}
}
