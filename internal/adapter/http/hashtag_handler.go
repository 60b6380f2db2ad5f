package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/simaogato/wealthflow-ledger/internal/adapter/dto"
)

type extractRequest struct {
	Text string `json:"text"`
}

// ListHashtags handles GET /hashtags
func (h *Handler) ListHashtags(c *gin.Context) {
	hashtags, err := h.Services.Hashtags.ListHashtags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"hashtags": dto.NewHashtagResponses(hashtags)})
}

// CreateHashtag handles POST /hashtags
func (h *Handler) CreateHashtag(c *gin.Context) {
	var req dto.HashtagRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dto.Validate(&req); err != nil {
		fail(c, err)
		return
	}

	hashtag, err := h.Services.Hashtags.CreateHashtag(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewHashtagResponse(hashtag))
}

// DeleteHashtag handles DELETE /hashtags/:id
func (h *Handler) DeleteHashtag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Hashtags.DeleteHashtag(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

// ExtractHashtags handles POST /hashtags/extract
func (h *Handler) ExtractHashtags(c *gin.Context) {
	var req extractRequest
	if !bindJSON(c, &req) {
		return
	}

	hashtags := h.Services.Hashtags.ExtractHashtags(req.Text)
	if hashtags == nil {
		hashtags = []string{}
	}
	c.JSON(stdhttp.StatusOK, gin.H{"hashtags": hashtags})
}

// DeleteCategory handles DELETE /categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Categories.DeleteCategory(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}
