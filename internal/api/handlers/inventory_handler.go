package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/services"
)

type InventoryHandler struct {
	Inventory *services.InventoryService
}

type CreateItemRequest struct {
	Name              string `json:"name" binding:"required"`
	Unit              string `json:"unit" binding:"required"`
	AvailableQuantity *int   `json:"availableQuantity" binding:"required"`
}

type SetQuantityRequest struct {
	AvailableQuantity *int `json:"availableQuantity" binding:"required"`
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.Inventory.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.Inventory.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.Inventory.AddItem(c.Request.Context(), req.Name, req.Unit, *req.AvailableQuantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// SetQuantity overwrites the stock level of one item.
func (h *InventoryHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.Inventory.SetItemQuantity(c.Request.Context(), id, *req.AvailableQuantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "availableQuantity": *req.AvailableQuantity})
}
