package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
	workflow *services.WorkflowService
}

func NewProjectHandler(projects *services.ProjectService, workflow *services.WorkflowService) *ProjectHandler {
	return &ProjectHandler{projects: projects, workflow: workflow}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.projects.CreateProject(r.Context(), &project, actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		projects, err := h.projects.GetProjectsByStatus(r.Context(), models.ProjectStatus(status))
		if err != nil {
			http.Error(w, err.Error(), apperrors.StatusCode(err))
			return
		}
		writeJSON(w, http.StatusOK, projects)
		return
	}

	projects, err := h.projects.GetAllProjects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	project, err := h.projects.GetProjectByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var in models.Project
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := h.projects.UpdateProject(r.Context(), mux.Vars(r)["projectId"], &in)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	if err := h.projects.DeleteProjectAndTasks(r.Context(), mux.Vars(r)["projectId"], actorID(r)); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Project and its tasks deleted successfully"}`))
}

func (h *ProjectHandler) RecomputeProgress(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	progress, err := h.workflow.RecomputeProjectProgress(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"progress": progress})
}

func (h *ProjectHandler) AddMembersToProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var request struct {
		MemberIDs []string `json:"memberIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.projects.AddMembersToProject(r.Context(), mux.Vars(r)["projectId"], request.MemberIDs)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) RemoveMemberFromProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	if err := h.projects.RemoveMemberFromProject(r.Context(), vars["projectId"], vars["memberId"]); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Member removed from project successfully"}`))
}

func (h *ProjectHandler) GetProjectMembers(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	members, err := h.projects.GetProjectMembers(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, members)
}
