package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/focusflow/focusflow-be/internal/pkg/httpx"
	"github.com/focusflow/focusflow-be/internal/service"
)

type Quote struct {
	svc *service.QuoteService
}

func NewQuote(svc *service.QuoteService) *Quote { return &Quote{svc: svc} }

// Get GET /api/v1/quote
func (h *Quote) Get(c *gin.Context) {
	q, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, q, "Quote generated successfully")
}
