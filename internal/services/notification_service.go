package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/transitlabs/metrodocs/internal/logger"
	"github.com/transitlabs/metrodocs/internal/models"
)

// NotificationService pushes operational alerts to the shoutrrr service URLs
// from configuration. With no URLs configured every send is a no-op.
type NotificationService struct {
	urls []string
}

// NewNotificationService creates a notification service for the given URLs.
func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{urls: urls}
}

// Send delivers one message to every configured service. Delivery failures
// are logged, never returned; alerting must not break request handling.
func (s *NotificationService) Send(title, message string) {
	if s == nil || len(s.urls) == 0 {
		return
	}

	body := fmt.Sprintf("%s\n%s", title, message)
	for _, url := range s.urls {
		go func(u string) {
			if err := shoutrrr.Send(u, body); err != nil {
				logger.Log().WithError(err).Warn("failed to send notification")
			}
		}(url)
	}
}

// NotifyDeadlines sends one digest for compliance items that need attention.
func (s *NotificationService) NotifyDeadlines(items []models.ComplianceItem) {
	if len(items) == 0 {
		return
	}

	msg := ""
	for _, item := range items {
		msg += fmt.Sprintf("- %s (%s) due %s, progress %.0f%%\n",
			item.Title, item.Authority, item.DueDate.Format("2006-01-02"), item.Progress)
	}

	s.Send(fmt.Sprintf("%d compliance deadlines need attention", len(items)), msg)
}

// NotifyProcessed reports a completed processing batch.
func (s *NotificationService) NotifyProcessed(count int) {
	if count == 0 {
		return
	}
	s.Send("Document processing complete", fmt.Sprintf("%d documents finished processing", count))
}
