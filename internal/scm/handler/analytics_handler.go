package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	dashboard *service.DashboardService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, dashboard *service.DashboardService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, dashboard: dashboard}
}

func (h *AnalyticsHandler) FinancialSummary(c *gin.Context) {
	metrics, err := h.analytics.FinancialSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, metrics)
}

// ExportSummary streams the financial summary as an xlsx attachment.
func (h *AnalyticsHandler) ExportSummary(c *gin.Context) {
	f, err := h.analytics.ExportSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("financial-summary-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
