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

// BlogHandler serves the blog endpoints
type BlogHandler struct {
	service service.BlogService
	log     *logger.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(s service.BlogService, log *logger.Logger) *BlogHandler {
	return &BlogHandler{service: s, log: log}
}

func (h *BlogHandler) List(c *gin.Context) {
	blogs, total, err := h.service.List(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondServerError(c, h.log, "list blogs failed", err)
		return
	}
	if len(blogs) == 0 {
		respondWarning(c, http.StatusBadRequest, "Blogs is not defined")
		return
	}
	respondList(c, "All Blogs", blogs, total)
}

func (h *BlogHandler) GetByID(c *gin.Context) {
	blog, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondWarning(c, http.StatusBadRequest, "Blog is not defined")
			return
		}
		respondServerError(c, h.log, "get blog failed", err)
		return
	}
	respondSuccess(c, http.StatusOK, "Blog", blog)
}

func (h *BlogHandler) Create(c *gin.Context) {
	authorID, ok := middleware.AuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	var req model.CreateBlogRequest
	if !bindJSON(c, &req) {
		return
	}

	blog, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		if respondValidation(c, err) {
			return
		}
		respondServerError(c, h.log, "create blog failed", err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Blog is created", blog)
}
