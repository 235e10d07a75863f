package audit

import (
	"context"

	"accounts-backend/internal/logging"
	"accounts-backend/internal/models"
)

// LogPublisher writes account events to the logger. Used when no NATS URL
// is configured.
type LogPublisher struct {
	logger logging.Logger
}

func NewLogPublisher(logger logging.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "audit")}
}

func (p *LogPublisher) AccountCreated(ctx context.Context, account *models.Account) error {
	p.logger.Info(ctx, models.AccountEventCreated,
		"account_id", account.ID,
		"org_id", account.OrgID,
		"email", account.Email,
	)
	return nil
}
