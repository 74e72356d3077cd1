package service

import (
	"context"
	"time"

	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/constants"
	"go.uber.org/zap"
)

const (
	notificationLogLimit = 200
	sentDayLayout        = "2006-01-02"
)

// ExpiryCandidate is one license picked up by a notification run.
type ExpiryCandidate struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// NotificationSummary counts what a run found and logged.
type NotificationSummary struct {
	TotalCandidates int `json:"total_candidates"`
	D30             int `json:"d30"`
	D7              int `json:"d7"`
	NewlyLogged     int `json:"newly_logged"`
}

// NotificationRun is the result of RunExpiryNotifications.
type NotificationRun struct {
	Summary    NotificationSummary `json:"summary"`
	Candidates struct {
		D30 []ExpiryCandidate `json:"d30"`
		D7  []ExpiryCandidate `json:"d7"`
	} `json:"candidates"`
}

// RunExpiryNotifications logs D30 reminders for the owner's ACTIVE licenses
// expiring within the far window and D7 reminders for those within the near
// window. A (license, rule) pair is logged at most once per calendar day.
func (s *Service) RunExpiryNotifications(ctx context.Context, ownerID uint, now time.Time) (*NotificationRun, error) {
	today := startOfDay(now)
	near := today.AddDate(0, 0, s.notify.NearDays)
	far := today.AddDate(0, 0, s.notify.FarDays)

	assets, err := s.logic.ListExpiring(ctx, ownerID, constants.LicenseActive, today, far)
	if err != nil {
		return nil, err
	}

	run := &NotificationRun{}
	run.Candidates.D30 = []ExpiryCandidate{}
	run.Candidates.D7 = []ExpiryCandidate{}
	ids := make([]uint, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
		c := ExpiryCandidate{ID: a.ID, Name: a.Name, ExpiryDate: a.ExpiryDate}
		run.Candidates.D30 = append(run.Candidates.D30, c)
		if !a.ExpiryDate.After(near) {
			run.Candidates.D7 = append(run.Candidates.D7, c)
		}
	}

	day := today.Format(sentDayLayout)
	sent, err := s.logic.SentNotificationPairs(ctx, ids, day)
	if err != nil {
		return nil, err
	}
	var logs []model.NotificationLog
	add := func(cs []ExpiryCandidate, rule string) {
		for _, c := range cs {
			if sent[c.ID][rule] {
				continue
			}
			logs = append(logs, model.NotificationLog{AssetID: c.ID, Rule: rule, SentDay: day, SentAt: now})
		}
	}
	add(run.Candidates.D30, constants.RuleD30)
	add(run.Candidates.D7, constants.RuleD7)

	created, err := s.logic.CreateNotificationLogs(ctx, logs)
	if err != nil {
		return nil, err
	}

	run.Summary = NotificationSummary{
		TotalCandidates: len(assets),
		D30:             len(run.Candidates.D30),
		D7:              len(run.Candidates.D7),
		NewlyLogged:     int(created),
	}
	s.logger.Info("expiry notifications run",
		zap.Uint("owner_id", ownerID),
		zap.Int("candidates", run.Summary.TotalCandidates),
		zap.Int("logged", run.Summary.NewlyLogged))
	return run, nil
}

// RunMyExpiryNotifications runs notifications for the caller at the current time.
func (s *Service) RunMyExpiryNotifications(ctx context.Context) (*NotificationRun, error) {
	ownerID, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	return s.RunExpiryNotifications(ctx, ownerID, s.now())
}

// ListNotificationLogs returns the caller's logs for "today" (default) or the last "week".
func (s *Service) ListNotificationLogs(ctx context.Context, window string) ([]model.NotificationLog, error) {
	ownerID, ok := common.AdminIDFromContext(ctx)
	if !ok {
		return nil, ErrAdminNotFound
	}
	since := startOfDay(s.now())
	switch window {
	case "", "today":
	case "week":
		since = since.AddDate(0, 0, -7)
	default:
		return nil, invalid("range must be today or week")
	}
	return s.logic.ListNotificationLogs(ctx, ownerID, since, notificationLogLimit)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
