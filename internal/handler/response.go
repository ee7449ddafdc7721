package handler

import (
	"errors"
	"net/http"
	"strconv"

	"blog_api/internal/logger"
	"blog_api/internal/model"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serverErrorMsg = "Server error"

func respondSuccess(c *gin.Context, status int, msg string, payload any) {
	c.JSON(status, model.Envelope{Msg: msg, Variant: model.VariantSuccess, Payload: payload})
}

func respondList(c *gin.Context, msg string, payload any, total int64) {
	c.JSON(http.StatusOK, model.Envelope{Msg: msg, Variant: model.VariantSuccess, Payload: payload, Total: &total})
}

func respondWarning(c *gin.Context, status int, msg string) {
	c.JSON(status, model.Envelope{Msg: msg, Variant: model.VariantWarning, Payload: nil})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, model.Envelope{Msg: msg, Variant: model.VariantError, Payload: nil})
}

// respondServerError hides err from the client and logs it with the request fields
func respondServerError(c *gin.Context, log *logger.Logger, action string, err error) {
	log.Ctx(c.Request.Context()).Error(action, zap.Error(err))
	respondError(c, http.StatusInternalServerError, serverErrorMsg)
}

// respondValidation writes a warning for request validation failures and reports whether err was one
func respondValidation(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondWarning(c, http.StatusBadRequest, verr.Message)
		return true
	}
	return false
}

// bindJSON decodes the body, answering with a warning on malformed input
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondWarning(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageFromQuery reads limit and skip, falling back to defaults for missing or bad values
func pageFromQuery(c *gin.Context) model.Page {
	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil {
		limit = model.DefaultPageLimit
	}
	skip, err := strconv.ParseInt(c.Query("skip"), 10, 64)
	if err != nil {
		skip = 1
	}
	return model.NewPage(limit, skip)
}
