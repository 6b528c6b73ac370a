package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	if role := r.URL.Query().Get("role"); role != "" {
		users, err := h.users.GetUsersByRole(r.Context(), role)
		if err != nil {
			http.Error(w, err.Error(), apperrors.StatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, users)
		return
	}

	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RenameUser changes a display name and refreshes the cached assignee name on
// the user's tasks.
func (h *UserHandler) RenameUser(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var request struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.users.RenameUser(r.Context(), mux.Vars(r)["userID"], request.Name); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "User renamed successfully"}`))
}
