package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/doctors-portal/internal/utils"
)

func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Doctors portal server is running")
}

// --- GET /service ---
func (h *Handler) GetServices(c *gin.Context) {
	services, err := h.Availability.ListServices(c.Request.Context())
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// --- GET /available?date= ---
// The date is matched verbatim against stored bookings; without one every slot is open.
func (h *Handler) GetAvailable(c *gin.Context) {
	services, err := h.Availability.ForDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		utils.JSONError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, services)
}
