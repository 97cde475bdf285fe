package transport

import (
	"net/http"

	"threadstory-be/internal/user"

	"github.com/gin-gonic/gin"
)

type authHandler struct {
	users user.Service
}

func (h *authHandler) register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	session, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *authHandler) login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	session, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *authHandler) profile(c *gin.Context) {
	u, err := h.users.Profile(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *authHandler) updateProfile(c *gin.Context) {
	var input user.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	session, err := h.users.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *authHandler) changePassword(c *gin.Context) {
	var input user.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteError(c, errInvalidBody)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), input); err != nil {
		WriteError(c, err)
		return
	}
	message(c, http.StatusOK, "Password updated successfully")
}
