package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
)

const reportMessage = "This is a report! only admins can see it."

// StatsSource exposes notification dispatcher counters.
type StatsSource interface {
	Stats() events.Stats
}

// AdminAPI serves operational endpoints.
type AdminAPI struct {
	notifications StatsSource
}

func NewAdminAPI(notifications StatsSource) AdminAPI {
	return AdminAPI{notifications: notifications}
}

// Get /admin/report
func (api *AdminAPI) Report(c *gin.Context) {
	resp := ReportResponse{Message: reportMessage}
	if api.notifications != nil {
		resp.Notifications = api.notifications.Stats()
	}
	c.JSON(http.StatusOK, resp)
}

// Get /healthz
func (api *AdminAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
