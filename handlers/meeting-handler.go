package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type MeetingHandler struct {
	meetings *services.MeetingService
}

func NewMeetingHandler(meetings *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var meeting models.Meeting
	if err := json.NewDecoder(r.Body).Decode(&meeting); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.meetings.CreateMeeting(r.Context(), &meeting, actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var in models.Meeting
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := h.meetings.UpdateMeeting(r.Context(), mux.Vars(r)["meetingID"], &in, actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.meetings.DeleteMeeting(r.Context(), mux.Vars(r)["meetingID"], actorID(r)); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Meeting deleted successfully"}`))
}

func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	if r.URL.Query().Get("mine") == "true" {
		meetings, err := h.meetings.GetMeetingsForUser(r.Context(), actorID(r))
		if err != nil {
			http.Error(w, err.Error(), apperrors.StatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, meetings)
		return
	}

	meetings, err := h.meetings.GetAllMeetings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}
