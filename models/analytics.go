package models

type DashboardStats struct {
	TotalProjects     int `json:"totalProjects"`
	TotalTasks        int `json:"totalTasks"`
	ActiveTasks       int `json:"activeTasks"`
	CompletedTasks    int `json:"completedTasks"`
	CompletedProjects int `json:"completedProjects"`
	CompletionRate    int `json:"completionRate"`
}

type TaskDistribution struct {
	ByStatus   map[TaskStatus]int   `json:"byStatus"`
	ByPriority map[TaskPriority]int `json:"byPriority"`
}
