package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gaurav-prasanna/recipepipe/core"
)

// Extractor runs recipe extraction for one URL.
type Extractor interface {
	Run(ctx context.Context, rawURL string) (*core.NormalizedRecipe, error)
}

type extractRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handlers contains the HTTP handlers.
type Handlers struct {
	extractor Extractor
}

// NewHandlers creates the handlers around extractor.
func NewHandlers(extractor Extractor) *Handlers {
	return &Handlers{extractor: extractor}
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExtractJSON handles POST requests carrying {"url": "..."}.
func (h *Handlers) ExtractJSON(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorResponse{
			Code:    core.KindInvalidURL.Code(),
			Message: "Request body must be JSON with a url field.",
		})
		return
	}
	h.extract(c, req.URL)
}

// ExtractQuery handles GET requests carrying ?url=.
func (h *Handlers) ExtractQuery(c *gin.Context) {
	h.extract(c, c.Query("url"))
}

func (h *Handlers) extract(c *gin.Context, rawURL string) {
	recipe, err := h.extractor.Run(c.Request.Context(), rawURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func writeError(c *gin.Context, err error) {
	e := core.Classify(err)
	_ = c.Error(err)
	c.JSON(e.Kind.HTTPStatus(), errorResponse{
		Code:    e.Kind.Code(),
		Message: e.Message,
	})
}
