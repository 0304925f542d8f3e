package amqp

import (
	"encoding/json"
	"time"

	"spendwise/internal/limits"
)

// AlertMessage announces a limit alert to other processes. It is
// self-contained so consumers need no access to the store.
type AlertMessage struct {
	AlertID      string           `json:"alertId"`
	LimitID      string           `json:"limitId"`
	Type         limits.AlertType `json:"type"`
	Severity     limits.Severity  `json:"severity"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Category     string           `json:"category"`
	CurrentCents int64            `json:"currentCents"`
	LimitCents   int64            `json:"limitCents"`
	Timestamp    time.Time        `json:"timestamp"`
}

func NewAlertMessage(a limits.Alert, s limits.Status) *AlertMessage {
	return &AlertMessage{
		AlertID:      a.ID,
		LimitID:      a.LimitID,
		Type:         a.Type,
		Severity:     a.Severity,
		Title:        a.Title,
		Message:      a.Message,
		Category:     string(s.Category),
		CurrentCents: s.CurrentAmount.Cents,
		LimitCents:   s.LimitAmount.Cents,
		Timestamp:    a.CreatedAt,
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
