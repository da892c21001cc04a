package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal/internal/middleware"
	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// --- GET /booking?patient= ---
// Patients only ever see their own bookings.
func (h *Handler) GetPatientBookings(c *gin.Context) {
	email, _ := middleware.Email(c)
	patient := c.Query("patient")
	if patient == "" || patient != email {
		utils.JSONError(c, h.Logger, utils.Forbidden())
		return
	}

	bookings, err := h.Bookings.ListForPatient(c.Request.Context(), patient)
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// --- POST /booking ---
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		utils.JSONError(c, h.Logger, utils.BadRequest("Invalid request body"))
		return
	}
	booking.ID = primitive.NilObjectID

	outcome, err := h.Bookings.Create(c.Request.Context(), booking)
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}

	status := http.StatusOK
	if outcome.Success {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}
