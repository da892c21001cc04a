package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// --- PUT /user/:email ---
// Creates or updates the user and hands back a token for that email. Any
// top-level body field is stored except email and role.
func (h *Handler) UpsertUser(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, h.Logger, utils.BadRequest("Invalid request body"))
		return
	}

	outcome, err := h.Directory.UpsertUser(c.Request.Context(), c.Param("email"), fields)
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// --- GET /user ---
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Directory.ListUsers(c.Request.Context())
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// --- GET /admin/:email ---
func (h *Handler) CheckAdmin(c *gin.Context) {
	isAdmin, err := h.Access.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

// --- PUT /user/admin/:email ---
func (h *Handler) MakeAdmin(c *gin.Context) {
	result, err := h.Directory.SetAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- DELETE /user/:email ---
func (h *Handler) DeleteUser(c *gin.Context) {
	result, err := h.Directory.DeleteUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
