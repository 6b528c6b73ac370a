package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
	"github.com/truongtn-dev/project-management/services"
)

type TaskHandler struct {
	tasks    *services.TaskService
	workflow *services.WorkflowService
}

func NewTaskHandler(tasks *services.TaskService, workflow *services.WorkflowService) *TaskHandler {
	return &TaskHandler{tasks: tasks, workflow: workflow}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), &task, actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	tasks, err := h.tasks.GetAllTasks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	task, err := h.tasks.GetTaskByID(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTasksByProjectID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	projectID := mux.Vars(r)["projectId"]
	if projectID == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.GetTasksByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	status := models.TaskStatus(r.URL.Query().Get("status"))
	if status == "" {
		http.Error(w, "Missing status parameter", http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.GetTasksByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByAssignee(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	tasks, err := h.tasks.GetTasksByAssignee(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetHighPriorityTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	tasks, err := h.tasks.GetHighPriorityTasks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var in models.Task
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := h.tasks.UpdateTask(r.Context(), mux.Vars(r)["taskID"], &in)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), mux.Vars(r)["taskID"], actorID(r)); err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Task deleted successfully"}`))
}

// Workflow transitions. The actor always comes from the authenticated
// identity, never from the request body.

func (h *TaskHandler) StartTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	task, err := h.workflow.StartTask(r.Context(), mux.Vars(r)["taskID"], actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) SubmitTaskForReview(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager, models.RoleMember}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var request struct {
		Link  string `json:"link"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.workflow.SubmitTaskForReview(r.Context(), mux.Vars(r)["taskID"], actorID(r), request.Link, request.Notes)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ApproveTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	task, err := h.workflow.ApproveTask(r.Context(), mux.Vars(r)["taskID"], actorID(r))
	if err != nil {
		logging.Logger.Warnf("Event ID: TASK_APPROVE_REJECTED, Description: Approve of task %s failed: %v", mux.Vars(r)["taskID"], err)
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) RejectTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{models.RoleAdmin, models.RoleManager}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	task, err := h.workflow.RejectTask(r.Context(), mux.Vars(r)["taskID"], actorID(r))
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}
