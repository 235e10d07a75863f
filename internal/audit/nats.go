package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"accounts-backend/internal/logging"
	"accounts-backend/internal/models"
)

const (
	StreamName     = "ACCOUNT_EVENTS"
	StreamSubjects = "accounts.events.>"
)

// streamPublisher is the part of nats.JetStreamContext the publisher needs.
type streamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATSPublisher sends msgpack-encoded account events to JetStream.
type NATSPublisher struct {
	nc      *nats.Conn
	js      streamPublisher
	subject string
	now     func() time.Time
}

// Connect dials NATS, makes sure the ACCOUNT_EVENTS stream exists and
// returns a publisher for subject.
func Connect(url, subject string, logger logging.Logger) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	ctx := context.Background()

	opts := []nats.Option{
		nats.Name("accounts-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info(ctx, "NATS connection closed")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error(ctx, "NATS error", "error", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info(ctx, "connected to NATS", "url", nc.ConnectedUrl())

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if err := ensureStream(js, logger); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &NATSPublisher{nc: nc, js: js, subject: subject, now: time.Now}, nil
}

func (p *NATSPublisher) AccountCreated(ctx context.Context, account *models.Account) error {
	payload, err := Encode(NewAccountCreated(account, p.now()))
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(p.subject, payload, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

func ensureStream(js nats.JetStreamContext, logger logging.Logger) error {
	_, err := js.StreamInfo(StreamName)
	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       StreamName,
			Subjects:   []string{StreamSubjects},
			Retention:  nats.LimitsPolicy,
			MaxAge:     30 * 24 * time.Hour,
			MaxMsgSize: 64 * 1024,
			Discard:    nats.DiscardOld,
			Storage:    nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("create stream %s: %w", StreamName, err)
		}
		logger.Info(context.Background(), "created JetStream stream", "stream", StreamName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get stream info: %w", err)
	}
	return nil
}
