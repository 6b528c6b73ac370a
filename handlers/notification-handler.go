package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetMyNotifications lists the authenticated user's notifications, newest
// first.
func (h *NotificationHandler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	notifications, err := h.notifications.GetForRecipient(r.Context(), actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	notificationID := mux.Vars(r)["notificationID"]
	createdAt := r.URL.Query().Get("createdAt")
	if err := h.notifications.MarkAsRead(r.Context(), actorID(r), notificationID, createdAt); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Notification marked as read"}`))
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), actorID(r)); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "All notifications marked as read"}`))
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	notificationID := mux.Vars(r)["notificationID"]
	createdAt := r.URL.Query().Get("createdAt")
	if err := h.notifications.Delete(r.Context(), actorID(r), notificationID, createdAt); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Notification deleted successfully"}`))
}
