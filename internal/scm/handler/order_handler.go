package handler

import (
	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// UpdateStatus rejects unrecognized status values before they reach the
// lifecycle engine.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	status, err := entity.ParseOrderStatus(c.Query("status"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), status, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), c.Param("id"), req, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
