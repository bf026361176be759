package invoicer

import (
	"github.com/ambegrouplimited/reminderd/internal/domain"
)

// ReminderScheduleRequest embeds the canonical schedule payload in an
// invoice-level request.
type ReminderScheduleRequest struct {
	ClientID  string                          `json:"client_id"`
	InvoiceID string                          `json:"invoice_id,omitempty"`
	Schedule  *domain.ReminderSchedulePayload `json:"reminder_schedule"`
}

// ReminderScheduleResponse is the invoicing API's view of a stored schedule.
type ReminderScheduleResponse struct {
	ID        string                          `json:"id"`
	ClientID  string                          `json:"client_id"`
	InvoiceID string                          `json:"invoice_id,omitempty"`
	Status    string                          `json:"status"`
	Schedule  *domain.ReminderSchedulePayload `json:"reminder_schedule"`
	CreatedAt string                          `json:"created_at,omitempty"`
	UpdatedAt string                          `json:"updated_at,omitempty"`
}
