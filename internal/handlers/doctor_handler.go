package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// --- POST /doctor ---
func (h *Handler) CreateDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		utils.JSONError(c, h.Logger, utils.BadRequest("Invalid request body"))
		return
	}
	doctor.ID = primitive.NilObjectID

	result, err := h.Directory.CreateDoctor(c.Request.Context(), doctor)
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// --- GET /doctor ---
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Directory.ListDoctors(c.Request.Context())
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// --- DELETE /doctor/:email ---
func (h *Handler) DeleteDoctor(c *gin.Context) {
	result, err := h.Directory.DeleteDoctor(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
