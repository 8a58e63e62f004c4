package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"registration-tracker/models"
	"registration-tracker/system"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats aggregates headline numbers across all three collections.
type DashboardStats struct {
	TotalCompanies      int64 `json:"totalCompanies"`
	TotalCountries      int64 `json:"totalCountries"`
	TotalPeople         int64 `json:"totalPeople"`
	TotalSubdomains     int   `json:"totalSubdomains"`
	TotalIPs            int   `json:"totalIPs"`
	ActiveRegistrations int64 `json:"activeRegistrations"`
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, warning, error, success
	Message string `json:"message"`
}

const statsCacheKey = "dashboard:stats"

// invalidateStats drops the cached dashboard stats. Every mutating handler
// calls this so the next stats read reflects the change immediately.
func (h *Handler) invalidateStats(c *fiber.Ctx) {
	h.Cache.Invalidate(c.Context(), statsCacheKey)
}

// Activity feed storage with mutex for thread safety
var (
	activityLog   []Activity
	activityMutex sync.RWMutex
)

// AddEvent prepends an entry to the recent-activity feed, keeping the
// newest 100.
func AddEvent(eventType, message string) {
	activityMutex.Lock()
	defer activityMutex.Unlock()

	entry := Activity{
		Time:    time.Now().Format("15:04:05"),
		Type:    eventType,
		Message: message,
	}
	activityLog = append([]Activity{entry}, activityLog...)
	if len(activityLog) > 100 {
		activityLog = activityLog[:100]
	}

	switch eventType {
	case "error":
		system.Error(message)
	case "warning":
		system.Warn(message)
	default:
		system.Info(message)
	}
}

// ResetEvents clears the activity feed. Used by tests.
func ResetEvents() {
	activityMutex.Lock()
	defer activityMutex.Unlock()
	activityLog = nil
}

// GetDashboardStats returns aggregate counts. The result is served from the
// redis cache when one is configured; mutations are visible after the TTL.
// GET /api/v1/dashboard/stats
func (h *Handler) GetDashboardStats(c *fiber.Ctx) error {
	if cached, hit := h.Cache.Get(c.Context(), statsCacheKey); hit {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return ok(c, stats)
		}
	}

	var stats DashboardStats
	h.DB.Model(&models.Company{}).Count(&stats.TotalCompanies)
	h.DB.Model(&models.Country{}).Count(&stats.TotalCountries)
	h.DB.Model(&models.Person{}).Count(&stats.TotalPeople)
	h.DB.Model(&models.Company{}).Where("is_active = ?", true).Count(&stats.ActiveRegistrations)

	var companies []models.Company
	if err := h.DB.Find(&companies).Error; err != nil {
		return serverError(c)
	}
	for _, company := range companies {
		stats.TotalSubdomains += len(company.Subdomains)
		stats.TotalIPs += len(company.IPAddresses)
	}

	if encoded, err := json.Marshal(stats); err == nil {
		h.Cache.Set(c.Context(), statsCacheKey, string(encoded))
	}

	return ok(c, stats)
}

// GetDashboardActivities returns the recent-activity feed, newest first.
// GET /api/v1/dashboard/activities
func (h *Handler) GetDashboardActivities(c *fiber.Ctx) error {
	activityMutex.RLock()
	defer activityMutex.RUnlock()

	out := make([]Activity, len(activityLog))
	copy(out, activityLog)
	return okCount(c, out, len(out))
}
