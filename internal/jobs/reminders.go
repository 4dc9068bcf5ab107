// Package jobs runs BookShare's scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/service"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

// dueSoonWindow is how far ahead the sweep looks for upcoming due dates.
// It matches the daily default schedule so each loan gets one reminder.
const dueSoonWindow = 24 * time.Hour

// ReminderSweep scans outstanding loans, flags newly overdue ones, and
// sends due-date reminders to borrowers and owners.
type ReminderSweep struct {
	store         storage.Store
	notifications *service.NotificationService
}

// NewReminderSweep creates the sweep job.
func NewReminderSweep(store storage.Store, notifications *service.NotificationService) *ReminderSweep {
	return &ReminderSweep{store: store, notifications: notifications}
}

// Run executes one sweep.
func (s *ReminderSweep) Run(ctx context.Context) error {
	now := time.Now()

	loans, err := s.store.ListOutstandingLoansDueBefore(ctx, now.Add(dueSoonWindow).Unix())
	if err != nil {
		return fmt.Errorf("list outstanding loans: %w", err)
	}

	var overdueIDs []string
	var ns []*models.Notification
	for _, loan := range loans {
		bookTitle := s.bookTitle(ctx, loan.BookID)

		if loan.DueAt < now.Unix() {
			// Past due. Only newly overdue loans trigger notifications.
			if loan.Overdue {
				continue
			}
			overdueIDs = append(overdueIDs, loan.ID)
			ns = append(ns,
				&models.Notification{
					UserID: loan.BorrowerID,
					Type:   models.NotifOverdue,
					Title:  "Book overdue",
					Body:   fmt.Sprintf("%q is overdue. Please arrange its return.", bookTitle),
					RefID:  loan.ID,
				},
				&models.Notification{
					UserID: loan.OwnerID,
					Type:   models.NotifOverdue,
					Title:  "Loan overdue",
					Body:   fmt.Sprintf("Your book %q has not been returned on time.", bookTitle),
					RefID:  loan.ID,
				},
			)
			continue
		}

		// Due within the window.
		ns = append(ns, &models.Notification{
			UserID: loan.BorrowerID,
			Type:   models.NotifDueSoon,
			Title:  "Book due soon",
			Body:   fmt.Sprintf("%q is due back soon.", bookTitle),
			RefID:  loan.ID,
		})
	}

	if len(overdueIDs) > 0 {
		if err := s.store.MarkOverdue(ctx, overdueIDs); err != nil {
			return fmt.Errorf("mark overdue: %w", err)
		}
		err := s.store.AppendActivity(ctx, &models.ActivityLog{
			Action:     "system.overdue_sweep",
			TargetType: "borrow_request",
			Detail:     fmt.Sprintf("%d loans flagged overdue", len(overdueIDs)),
		})
		if err != nil {
			slog.Error("Failed to log sweep activity", "error", err)
		}
	}
	if err := s.notifications.Push(ctx, ns...); err != nil {
		return fmt.Errorf("push reminders: %w", err)
	}

	slog.Info("Reminder sweep completed",
		"outstanding", len(loans),
		"newly_overdue", len(overdueIDs),
		"notifications", len(ns),
	)
	return nil
}

func (s *ReminderSweep) bookTitle(ctx context.Context, bookID string) string {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "a book"
	}
	return book.Title
}

// Scheduler runs the sweep on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a scheduler running sweep at the given cron spec
// (standard 5-field format).
func NewScheduler(spec string, sweep *ReminderSweep) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := sweep.Run(context.Background()); err != nil {
			slog.Error("Reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start begins scheduled execution.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
