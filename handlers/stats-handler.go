package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type StatsHandler struct {
	stats      *services.StatsService
	activities *services.ActivityService
}

func NewStatsHandler(stats *services.StatsService, activities *services.ActivityService) *StatsHandler {
	return &StatsHandler{stats: stats, activities: activities}
}

func (h *StatsHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	stats, err := h.stats.GetDashboardStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetTaskDistribution(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	distribution, err := h.stats.GetTaskDistribution(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, distribution)
}

func (h *StatsHandler) GetRecentActivities(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	activities, err := h.activities.GetRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}
