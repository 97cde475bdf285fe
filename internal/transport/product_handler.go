package transport

import (
	"net/http"

	"threadstory-be/internal/product"

	"github.com/gin-gonic/gin"
)

type productHandler struct {
	products product.Service
}

func (h *productHandler) list(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), product.ListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     product.SortOrder(c.Query("sort")),
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *productHandler) get(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) create(c *gin.Context) {
	var input product.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	p, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *productHandler) update(c *gin.Context) {
	var input product.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	message(c, http.StatusOK, "Product removed")
}

func (h *productHandler) addReview(c *gin.Context) {
	var input product.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	if _, err := h.products.AddReview(c.Request.Context(), c.Param("id"), input); err != nil {
		WriteError(c, err)
		return
	}
	message(c, http.StatusCreated, "Review added")
}
