package handler

import (
	"errors"
	"net/http"

	"blog_api/internal/logger"
	"blog_api/internal/middleware"
	"blog_api/internal/model"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
)

const userNotDefinedMsg = "User is not defined"

// UserHandler serves the user account endpoints
type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

func actorFromContext(c *gin.Context) service.Actor {
	userID, _ := middleware.AuthUserID(c)
	return service.Actor{UserID: userID, Role: middleware.AuthRole(c)}
}

func (h *UserHandler) List(c *gin.Context) {
	users, total, err := h.service.List(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondServerError(c, h.log, "list users failed", err)
		return
	}
	if len(users) == 0 {
		respondWarning(c, http.StatusBadRequest, "Users is not defined")
		return
	}
	respondList(c, "All Users", users, total)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserError(c, "get user failed", err)
		return
	}
	respondSuccess(c, http.StatusOK, "User", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.respondUserError(c, "update user failed", err)
		return
	}
	respondSuccess(c, http.StatusOK, "User is updated", user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		h.respondUserError(c, "delete user failed", err)
		return
	}
	respondSuccess(c, http.StatusOK, "user is deleted", user)
}

func (h *UserHandler) respondUserError(c *gin.Context, action string, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondWarning(c, http.StatusBadRequest, userNotDefinedMsg)
	case errors.Is(err, service.ErrUsernameTaken):
		respondWarning(c, http.StatusBadRequest, "This username has been used")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "You do not have permission to modify this user")
	default:
		respondServerError(c, h.log, action, err)
	}
}
