package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/models"
)

// In-memory store fakes. The task fake enforces the same versioned
// compare-and-set semantics as the Mongo repository so the concurrency rules
// can be tested without a database.

type fakeTaskStore struct {
	mu        sync.Mutex
	tasks     map[string]models.Task
	updateErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]models.Task)}
}

func (f *fakeTaskStore) put(task models.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.Version == 0 {
		task.Version = 1
	}
	f.tasks[task.ID.Hex()] = task
}

func (f *fakeTaskStore) GetByID(ctx context.Context, taskID string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (f *fakeTaskStore) Insert(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.Version = 1
	f.tasks[task.ID.Hex()] = *task
	return nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	existing, ok := f.tasks[task.ID.Hex()]
	if !ok {
		return apperrors.ErrTaskNotFound
	}
	if existing.Version != task.Version {
		return apperrors.ErrConflict
	}
	task.Version++
	f.tasks[task.ID.Hex()] = *task
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[taskID]; !ok {
		return apperrors.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTaskStore) GetAll(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, t := range f.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (f *fakeTaskStore) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskStore) GetByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, t := range f.tasks {
		if t.Status == status {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskStore) GetByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, t := range f.tasks {
		if t.AssigneeID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (f *fakeTaskStore) GetHighPriority(ctx context.Context, limit int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, t := range f.tasks {
		if t.Priority == models.PriorityHigh {
			tasks = append(tasks, t)
		}
		if int64(len(tasks)) == limit {
			break
		}
	}
	return tasks, nil
}

func (f *fakeTaskStore) HasActiveForAssignee(ctx context.Context, projectID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.AssigneeID == userID && t.Status == models.StatusInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskStore) RefreshAssigneeName(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.AssigneeID == userID {
			t.AssigneeName = name
			t.Version++
			f.tasks[id] = t
		}
	}
	return nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]models.Project
	tasks    *fakeTaskStore
	// setProgressFailures makes the next N SetProgress calls fail.
	setProgressFailures int
	setProgressCalls    int
	failCascade         bool
}

func newFakeProjectStore(tasks *fakeTaskStore) *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]models.Project), tasks: tasks}
}

func (f *fakeProjectStore) put(project models.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.Version == 0 {
		project.Version = 1
	}
	f.projects[project.ID.Hex()] = project
}

func (f *fakeProjectStore) progressOf(projectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[projectID].Progress
}

func (f *fakeProjectStore) GetByID(ctx context.Context, projectID string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[projectID]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	copied := project
	return &copied, nil
}

func (f *fakeProjectStore) Insert(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	project.Version = 1
	f.projects[project.ID.Hex()] = *project
	return nil
}

func (f *fakeProjectStore) Update(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.projects[project.ID.Hex()]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	if existing.Version != project.Version {
		return apperrors.ErrConflict
	}
	project.Version++
	f.projects[project.ID.Hex()] = *project
	return nil
}

func (f *fakeProjectStore) SetProgress(ctx context.Context, projectID string, progress int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setProgressCalls++
	if f.setProgressFailures > 0 {
		f.setProgressFailures--
		return apperrors.ErrConflict
	}
	project, ok := f.projects[projectID]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	project.Progress = progress
	project.Version++
	f.projects[projectID] = project
	return nil
}

func (f *fakeProjectStore) DeleteWithTasks(ctx context.Context, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCascade {
		return apperrors.ErrPartialFailure
	}
	if _, ok := f.projects[projectID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	delete(f.projects, projectID)

	f.tasks.mu.Lock()
	defer f.tasks.mu.Unlock()
	for id, t := range f.tasks.tasks {
		if t.ProjectID == projectID {
			delete(f.tasks.tasks, id)
		}
	}
	return nil
}

func (f *fakeProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var projects []models.Project
	for _, p := range f.projects {
		projects = append(projects, p)
	}
	return projects, nil
}

func (f *fakeProjectStore) GetByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var projects []models.Project
	for _, p := range f.projects {
		if p.Status == status {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) put(user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID.Hex()] = user
}

func (f *fakeUserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserStore) GetAll(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserStore) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID.Hex()] = *user
	return nil
}

func (f *fakeUserStore) UpdateName(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Name = name
	f.users[userID] = user
	return nil
}

type fakeNotificationStore struct {
	mu        sync.Mutex
	sent      []models.Notification
	insertErr error
}

func (f *fakeNotificationStore) Insert(ctx context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.sent = append(f.sent, *notification)
	return nil
}

func (f *fakeNotificationStore) GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []models.Notification
	for _, n := range f.sent {
		if n.RecipientID == recipientID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (f *fakeNotificationStore) MarkAsRead(ctx context.Context, recipientID, notificationID, createdAt string) error {
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, recipientID string) error {
	return nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, recipientID, notificationID, createdAt string) error {
	return nil
}

func (f *fakeNotificationStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeNotificationStore) last() models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeMeetingStore struct {
	mu       sync.Mutex
	meetings map[string]models.Meeting
}

func newFakeMeetingStore() *fakeMeetingStore {
	return &fakeMeetingStore{meetings: make(map[string]models.Meeting)}
}

func (f *fakeMeetingStore) GetByID(ctx context.Context, meetingID string) (*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meeting, ok := f.meetings[meetingID]
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	copied := meeting
	return &copied, nil
}

func (f *fakeMeetingStore) Insert(ctx context.Context, meeting *models.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if meeting.ID.IsZero() {
		meeting.ID = primitive.NewObjectID()
	}
	f.meetings[meeting.ID.Hex()] = *meeting
	return nil
}

func (f *fakeMeetingStore) Update(ctx context.Context, meeting *models.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetings[meeting.ID.Hex()]; !ok {
		return apperrors.ErrMeetingNotFound
	}
	f.meetings[meeting.ID.Hex()] = *meeting
	return nil
}

func (f *fakeMeetingStore) Delete(ctx context.Context, meetingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetings[meetingID]; !ok {
		return apperrors.ErrMeetingNotFound
	}
	delete(f.meetings, meetingID)
	return nil
}

func (f *fakeMeetingStore) GetAll(ctx context.Context) ([]models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var meetings []models.Meeting
	for _, m := range f.meetings {
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func (f *fakeMeetingStore) GetByParticipant(ctx context.Context, userID string) ([]models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var meetings []models.Meeting
	for _, m := range f.meetings {
		for _, p := range m.Participants {
			if p == userID {
				meetings = append(meetings, m)
				break
			}
		}
	}
	return meetings, nil
}

type fakeEmailSender struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (f *fakeEmailSender) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeActivityStore struct {
	mu     sync.Mutex
	logged []models.Activity
}

func (f *fakeActivityStore) Insert(ctx context.Context, activity *models.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged = append(f.logged, *activity)
	return nil
}

func (f *fakeActivityStore) Recent(ctx context.Context, limit int64) ([]models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	activities := make([]models.Activity, len(f.logged))
	copy(activities, f.logged)
	if int64(len(activities)) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
