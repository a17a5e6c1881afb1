package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/report"
	"github.com/0xRichardL/whale-tracker/internal/store"
)

type WhaleController struct {
	store *store.WhaleStore
}

func NewWhaleController(store *store.WhaleStore) *WhaleController {
	return &WhaleController{store: store}
}

func (c *WhaleController) RegisterWhaleRoutes(rg *gin.RouterGroup) {
	rg.GET("/whales", c.handleListWhales)
	rg.POST("/whales", c.handleAddWhale)
}

func (c *WhaleController) handleListWhales(ctx *gin.Context) {
	whales, err := c.store.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, whales)
}

func (c *WhaleController) handleAddWhale(ctx *gin.Context) {
	var req struct {
		Address string `json:"address"`
		Name    string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Address == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}
	if req.Name == "" {
		req.Name = report.ShortenAddress(req.Address)
	}

	w := domain.Whale{Address: req.Address, Name: req.Name}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()
	if err := c.store.Add(reqCtx, w); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}
