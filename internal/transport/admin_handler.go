package transport

import (
	"bytes"
	"net/http"

	"threadstory-be/internal/admin"
	"threadstory-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Realtime upgrades a request to the admin order feed.
type Realtime interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

type adminHandler struct {
	admin admin.Service
	feed  Realtime
}

func (h *adminHandler) stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *adminHandler) users(c *gin.Context) {
	users, err := h.admin.Users(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *adminHandler) userDetail(c *gin.Context) {
	detail, err := h.admin.UserDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *adminHandler) updateUser(c *gin.Context) {
	var input user.AdminUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	u, err := h.admin.UpdateUser(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *adminHandler) deleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	message(c, http.StatusOK, "User removed")
}

// exportProducts renders the workbook into a buffer first so a failure can
// still be reported as JSON.
func (h *adminHandler) exportProducts(c *gin.Context) {
	products, err := h.admin.Products(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := admin.WriteProductsXLSX(&buf, products); err != nil {
		WriteError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+admin.ExportFileName)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, admin.ExportContentType, buf.Bytes())
}

func (h *adminHandler) orderFeed(c *gin.Context) {
	// the hub writes its own handshake response on failure
	_ = h.feed.ServeWS(c.Writer, c.Request)
}
