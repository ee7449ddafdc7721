package handler

import (
	"errors"
	"net/http"

	"blog_api/internal/logger"
	"blog_api/internal/model"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-up and sign-in
type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		if respondValidation(c, err) {
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			respondWarning(c, http.StatusBadRequest, "This username has been used")
			return
		}
		respondServerError(c, h.log, "sign-up failed", err)
		return
	}

	respondSuccess(c, http.StatusCreated, "User is created", user)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req model.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.service.SignIn(c.Request.Context(), req)
	if err != nil {
		if respondValidation(c, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrUnknownUsername):
			respondError(c, http.StatusBadRequest, "Username is not found")
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, http.StatusUnauthorized, "Password is wrong")
		default:
			respondServerError(c, h.log, "sign-in failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, model.Envelope{
		Msg:     "Log in",
		Variant: model.VariantSuccess,
		Payload: user,
		Token:   token,
	})
}
