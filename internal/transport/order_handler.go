package transport

import (
	"net/http"

	"threadstory-be/internal/order"

	"github.com/gin-gonic/gin"
)

type orderHandler struct {
	orders order.Service
}

func (h *orderHandler) create(c *gin.Context) {
	var input order.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	o, err := h.orders.Create(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *orderHandler) createGatewayOrder(c *gin.Context) {
	var input order.GatewayOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	gwOrder, err := h.orders.CreateGatewayOrder(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gwOrder)
}

func (h *orderHandler) mine(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *orderHandler) get(c *gin.Context) {
	o, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandler) pay(c *gin.Context) {
	var input order.PayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	o, err := h.orders.ConfirmPayment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandler) listAll(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *orderHandler) deliver(c *gin.Context) {
	o, err := h.orders.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandler) setStatus(c *gin.Context) {
	var input order.StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	o, err := h.orders.SetStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
