// Package audit publishes account lifecycle events.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"accounts-backend/internal/models"
)

const eventVersion = 1

// NewAccountCreated builds the event for a freshly persisted account.
func NewAccountCreated(account *models.Account, at time.Time) models.AccountEvent {
	return models.AccountEvent{
		V:         eventVersion,
		ID:        uuid.New().String(),
		TS:        at.UnixMilli(),
		Kind:      models.AccountEventCreated,
		AccountID: account.ID,
		OrgID:     account.OrgID,
		Email:     account.Email,
	}
}

func Encode(evt models.AccountEvent) ([]byte, error) {
	payload, err := msgpack.Marshal(&evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}

func Decode(data []byte) (models.AccountEvent, error) {
	var evt models.AccountEvent
	if err := msgpack.Unmarshal(data, &evt); err != nil {
		return evt, fmt.Errorf("unmarshal event: %w", err)
	}
	return evt, nil
}
