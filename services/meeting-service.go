package services

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/truongtn-dev/project-management/errors"
	"github.com/truongtn-dev/project-management/logging"
	"github.com/truongtn-dev/project-management/models"
)

type MeetingService struct {
	meetings      MeetingStore
	users         UserStore
	notifications NotificationStore
	email         EmailSender
}

func NewMeetingService(meetings MeetingStore, users UserStore, notifications NotificationStore, email EmailSender) *MeetingService {
	return &MeetingService{
		meetings:      meetings,
		users:         users,
		notifications: notifications,
		email:         email,
	}
}

// CreateMeeting stores the meeting and invites every participant other than
// the creator through an in-app notification plus a best-effort email.
func (s *MeetingService) CreateMeeting(ctx context.Context, meeting *models.Meeting, creatorID string) (*models.Meeting, error) {
	if meeting.Title == "" {
		return nil, apperrors.NewValidation("meeting title is required")
	}
	if meeting.EndTime.Before(meeting.StartTime) {
		return nil, apperrors.NewValidation("meeting end time must not precede its start time")
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	meeting.CreatedBy = creatorID
	meeting.CreatedByName = creator.Name
	now := time.Now()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	if err := s.meetings.Insert(ctx, meeting); err != nil {
		return nil, err
	}

	s.inviteParticipants(ctx, meeting, creatorID, "New meeting invitation",
		fmt.Sprintf("You have been invited to: %s", meeting.Title))
	return meeting, nil
}

// UpdateMeeting edits a meeting; only the creator may change it.
func (s *MeetingService) UpdateMeeting(ctx context.Context, meetingID string, in *models.Meeting, actorID string) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}

	if in.Title != "" {
		meeting.Title = in.Title
	}
	if in.Description != "" {
		meeting.Description = in.Description
	}
	if !in.StartTime.IsZero() {
		meeting.StartTime = in.StartTime
	}
	if !in.EndTime.IsZero() {
		meeting.EndTime = in.EndTime
	}
	if in.MeetingLink != "" {
		meeting.MeetingLink = in.MeetingLink
	}
	if in.Participants != nil {
		meeting.Participants = in.Participants
	}
	if meeting.EndTime.Before(meeting.StartTime) {
		return nil, apperrors.NewValidation("meeting end time must not precede its start time")
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}

	s.inviteParticipants(ctx, meeting, actorID, "Meeting updated",
		fmt.Sprintf("Meeting details changed: %s", meeting.Title))
	return meeting, nil
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingID, actorID string) error {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.CreatedBy != actorID {
		return apperrors.ErrForbidden
	}
	return s.meetings.Delete(ctx, meetingID)
}

func (s *MeetingService) GetAllMeetings(ctx context.Context) ([]models.Meeting, error) {
	return s.meetings.GetAll(ctx)
}

func (s *MeetingService) GetMeetingsForUser(ctx context.Context, userID string) ([]models.Meeting, error) {
	return s.meetings.GetByParticipant(ctx, userID)
}

// inviteParticipants fans the invitation out to everyone but the actor.
// Notification and email failures are logged, never surfaced.
func (s *MeetingService) inviteParticipants(ctx context.Context, meeting *models.Meeting, actorID, title, message string) {
	for _, participantID := range meeting.Participants {
		if participantID == actorID {
			continue
		}

		notification := &models.Notification{
			RecipientID: participantID,
			SenderID:    actorID,
			Title:       title,
			Message:     message,
			Type:        models.NotificationMeetingInvite,
			Link:        "/meetings",
			CreatedAt:   time.Now(),
		}
		if err := s.notifications.Insert(ctx, notification); err != nil {
			logging.Logger.Errorf("Event ID: NOTIFICATION_FAILED, Description: Failed to notify participant %s: %v", participantID, err)
		}

		user, err := s.users.GetByID(ctx, participantID)
		if err != nil || user.Email == "" {
			continue
		}
		body := fmt.Sprintf("%s<br>Starts at: %s", message, meeting.StartTime.Format(time.RFC1123))
		if err := s.email.Send(user.Email, title, body); err != nil {
			logging.Logger.Warnf("Event ID: EMAIL_FAILED, Description: Failed to email participant %s: %v", participantID, err)
		}
	}
}
