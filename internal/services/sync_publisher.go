// Package services connects the report store to the optional sync pipeline.
package services

import (
	"context"
	"fmt"

	"relatoriomei/internal/amqp"
	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
	"relatoriomei/internal/store"
)

// MessagePublisher is the publishing side of the AMQP client.
type MessagePublisher interface {
	PublishReportSync(ctx context.Context, msg *amqp.ReportSyncMessage) error
}

// SyncPublisher turns store changes into sync messages.
// A nil publisher makes every notification a no-op.
type SyncPublisher struct {
	publisher MessagePublisher
	logger    *log.Logger
}

var _ store.ChangeListener = (*SyncPublisher)(nil)

func NewSyncPublisher(publisher MessagePublisher, logger *log.Logger) *SyncPublisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncPublisher{
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentAMQP),
	}
}

// Enabled reports whether messages are actually sent.
func (s *SyncPublisher) Enabled() bool {
	return s != nil && s.publisher != nil
}

func (s *SyncPublisher) OnReportChanged(ctx context.Context, p core.Period) error {
	return s.publish(ctx, amqp.KindUpsert, p)
}

func (s *SyncPublisher) OnPeriodDeleted(ctx context.Context, p core.Period) error {
	return s.publish(ctx, amqp.KindDelete, p)
}

func (s *SyncPublisher) OnProfileChanged(ctx context.Context) error {
	return s.publish(ctx, amqp.KindProfile, core.Period{})
}

func (s *SyncPublisher) publish(ctx context.Context, kind amqp.Kind, p core.Period) error {
	if !s.Enabled() {
		return nil
	}
	msg := amqp.NewReportSyncMessage(kind, p)
	if err := s.publisher.PublishReportSync(ctx, msg); err != nil {
		return fmt.Errorf("publish %s sync message: %w", kind, err)
	}
	s.logger.DebugContext(ctx, "Queued report sync",
		log.FieldMessageID, msg.ID,
		log.FieldKind, string(kind),
		log.FieldPeriod, msg.Period)
	return nil
}
