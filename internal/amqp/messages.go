package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"relatoriomei/internal/core"
)

// Kind identifies what changed in the report store.
type Kind string

const (
	KindUpsert  Kind = "upsert"
	KindDelete  Kind = "delete"
	KindProfile Kind = "profile"
)

// ReportSyncMessage is a lightweight change notification.
// It carries only the period; the worker reads the report itself from the slot.
type ReportSyncMessage struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Period    string    `json:"period,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportSyncMessage creates a message with a fresh id.
func NewReportSyncMessage(kind Kind, period core.Period) *ReportSyncMessage {
	msg := &ReportSyncMessage{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: time.Now(),
	}
	if !period.IsZero() {
		msg.Period = period.String()
	}
	return msg
}

// Validate checks the kind and, for period-scoped kinds, the period key.
func (m *ReportSyncMessage) Validate() error {
	switch m.Kind {
	case KindProfile:
		return nil
	case KindUpsert, KindDelete:
		if _, err := core.ParsePeriod(m.Period); err != nil {
			return fmt.Errorf("message %s: %w", m.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("message %s: unknown kind %q", m.ID, m.Kind)
	}
}

// ParsedPeriod returns the message period. Only meaningful after Validate.
func (m *ReportSyncMessage) ParsedPeriod() core.Period {
	p, _ := core.ParsePeriod(m.Period)
	return p
}

// ToJSON converts the message to JSON bytes
func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSyncMessageFromJSON creates a message from JSON bytes
func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
