package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/truongtn-dev/project-management/handlers"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/middleware"
	"github.com/truongtn-dev/project-management/repositories"
	"github.com/truongtn-dev/project-management/services"
	"github.com/truongtn-dev/project-management/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting project management backend...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "project_management"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	projectRepo := repositories.NewProjectRepository(client, db.Collection("projects"), db.Collection("tasks"))
	taskRepo := repositories.NewTaskRepository(db.Collection("tasks"))
	userRepo := repositories.NewUserRepository(db.Collection("users"))
	meetingRepo := repositories.NewMeetingRepository(db.Collection("meetings"))
	activityRepo := repositories.NewActivityRepository(db.Collection("activities"))

	if err := projectRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	notificationRepo, err := repositories.NewNotificationRepository()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
	}
	defer notificationRepo.CloseSession()

	emailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	emailSender := utils.NewSMTPSender(emailBreaker)

	rejectProgress := services.DefaultRejectProgress
	if raw := os.Getenv("WORKFLOW_REJECT_PROGRESS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			rejectProgress = parsed
		}
	}

	workflowService := services.NewWorkflowService(taskRepo, projectRepo, notificationRepo, activityRepo, userRepo, rejectProgress)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, activityRepo, workflowService)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo, activityRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	meetingService := services.NewMeetingService(meetingRepo, userRepo, notificationRepo, emailSender)
	statsService := services.NewStatsService(projectRepo, taskRepo)
	activityService := services.NewActivityService(activityRepo)
	userService := services.NewUserService(userRepo, taskRepo)

	taskHandler := handlers.NewTaskHandler(taskService, workflowService)
	projectHandler := handlers.NewProjectHandler(projectService, workflowService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	statsHandler := handlers.NewStatsHandler(statsService, activityService)
	userHandler := handlers.NewUserHandler(userService)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/all", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/status", taskHandler.GetTasksByStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/high-priority", taskHandler.GetHighPriorityTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/assignee/{userID}", taskHandler.GetTasksByAssignee).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectId}", taskHandler.GetTasksByProjectID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/start", taskHandler.StartTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/submit-review", taskHandler.SubmitTaskForReview).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/approve", taskHandler.ApproveTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/reject", taskHandler.RejectTask).Methods(http.MethodPost)

	r.HandleFunc("/api/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}", projectHandler.GetProjectByID).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}", projectHandler.UpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{projectId}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/api/projects/{projectId}/recompute-progress", projectHandler.RecomputeProgress).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{projectId}/members", projectHandler.GetProjectMembers).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{projectId}/members", projectHandler.AddMembersToProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{projectId}/members/{memberId}", projectHandler.RemoveMemberFromProject).Methods(http.MethodDelete)

	r.HandleFunc("/api/notifications", notificationHandler.GetMyNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPatch)
	r.HandleFunc("/api/notifications/{notificationID}/read", notificationHandler.MarkAsRead).Methods(http.MethodPatch)
	r.HandleFunc("/api/notifications/{notificationID}", notificationHandler.DeleteNotification).Methods(http.MethodDelete)

	r.HandleFunc("/api/meetings", meetingHandler.CreateMeeting).Methods(http.MethodPost)
	r.HandleFunc("/api/meetings", meetingHandler.ListMeetings).Methods(http.MethodGet)
	r.HandleFunc("/api/meetings/{meetingID}", meetingHandler.UpdateMeeting).Methods(http.MethodPut)
	r.HandleFunc("/api/meetings/{meetingID}", meetingHandler.DeleteMeeting).Methods(http.MethodDelete)

	r.HandleFunc("/api/stats/dashboard", statsHandler.GetDashboardStats).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/task-distribution", statsHandler.GetTaskDistribution).Methods(http.MethodGet)
	r.HandleFunc("/api/activities", statsHandler.GetRecentActivities).Methods(http.MethodGet)

	r.HandleFunc("/api/users", userHandler.GetAllUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userID}", userHandler.GetUserByID).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userID}/name", userHandler.RenameUser).Methods(http.MethodPatch)

	handler := enableCORS(middleware.Auth(r))

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, handler); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
