package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ambegrouplimited/reminderd/internal/clients/invoicer"
	"github.com/ambegrouplimited/reminderd/internal/domain"
)

type draftSaveRequest struct {
	ClientID string                              `json:"client_id"`
	Summary  domain.ReminderScheduleSummaryValue `json:"summary"`
	Metadata json.RawMessage                     `json:"metadata,omitempty"`
	LastStep string                              `json:"last_step,omitempty"`
	LastPath string                              `json:"last_path,omitempty"`
}

type flushRequest struct {
	ClientID string `json:"client_id"`
}

type submitRequest struct {
	ClientID  string                              `json:"client_id"`
	DraftID   string                              `json:"draft_id,omitempty"`
	InvoiceID string                              `json:"invoice_id,omitempty"`
	Summary   domain.ReminderScheduleSummaryValue `json:"summary"`
}

type draftResponse struct {
	DraftID   string                              `json:"draft_id"`
	ClientID  string                              `json:"client_id"`
	Summary   domain.ReminderScheduleSummaryValue `json:"summary"`
	LastStep  string                              `json:"last_step,omitempty"`
	LastPath  string                              `json:"last_path,omitempty"`
	UpdatedAt string                              `json:"updated_at"`
}

type previewResponse struct {
	Occurrences []domain.Occurrence `json:"occurrences"`
	CanSubmit   bool                `json:"can_submit"`
}

type submitResponse struct {
	RemoteID string                          `json:"remote_id"`
	Payload  *domain.ReminderSchedulePayload `json:"payload"`
}

// handleDrafts accepts a draft snapshot and hands it to the per-client
// debounced autosaver. The write happens after the quiet period, or on an
// explicit flush.
func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req draftSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" {
		s.writeError(w, http.StatusBadRequest, "client_id is required")
		return
	}
	if !domain.ValidMode(string(req.Summary.Mode)) {
		s.writeError(w, http.StatusBadRequest, "unknown schedule mode")
		return
	}

	params, err := json.Marshal(req.Summary)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid summary")
		return
	}
	metadata := "{}"
	if len(req.Metadata) > 0 {
		metadata = string(req.Metadata)
	}

	s.saver(req.ClientID).Save(domain.Draft{
		ClientID: req.ClientID,
		Params:   string(params),
		Metadata: metadata,
		LastStep: req.LastStep,
		LastPath: req.LastPath,
	})

	s.writeJSON(w, http.StatusAccepted, map[string]bool{"pending": true})
}

// handleFlush cancels the pending debounce timer and writes immediately,
// returning the persisted draft id.
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req flushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" {
		s.writeError(w, http.StatusBadRequest, "client_id is required")
		return
	}

	id, err := s.saver(req.ClientID).Flush()
	if err != nil {
		s.log.Error().Err(err).Str("client_id", req.ClientID).Msg("flush draft")
		s.writeError(w, http.StatusInternalServerError, "flush failed")
		return
	}
	if id == "" {
		s.writeError(w, http.StatusNotFound, "nothing to flush")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"draft_id": id})
}

// handleDraft hydrates a stored draft back into editable summary state.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/draft/")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	draft, err := s.storage.GetDraft(id)
	if err != nil {
		s.log.Error().Err(err).Str("draft_id", id).Msg("get draft")
		s.writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if draft == nil {
		s.writeError(w, http.StatusNotFound, "draft not found")
		return
	}

	var summary domain.ReminderScheduleSummaryValue
	if err := json.Unmarshal([]byte(draft.Params), &summary); err != nil {
		s.writeError(w, http.StatusInternalServerError, "corrupt draft params")
		return
	}

	s.writeJSON(w, http.StatusOK, draftResponse{
		DraftID:   draft.ID,
		ClientID:  draft.ClientID,
		Summary:   summary,
		LastStep:  draft.LastStep,
		LastPath:  draft.LastPath,
		UpdatedAt: draft.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handlePreview returns the upcoming occurrences for a summary without
// persisting anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var value domain.ReminderScheduleSummaryValue
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.ValidMode(string(value.Mode)) {
		s.writeError(w, http.StatusBadRequest, "unknown schedule mode")
		return
	}

	sum := domain.SummaryFromWire(value)
	s.writeJSON(w, http.StatusOK, previewResponse{
		Occurrences: s.schedule.Preview(sum),
		CanSubmit:   sum.CanSubmit(),
	})
}

// handleSubmit gates on CanSubmit, encodes the wire payload and hands it to
// the invoicing API, recording the accepted submission.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sum := domain.SummaryFromWire(req.Summary)
	if !sum.CanSubmit() {
		s.writeError(w, http.StatusUnprocessableEntity, "schedule is not submittable")
		return
	}

	payload := s.schedule.BuildSchedulePayload(sum)
	if payload == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "schedule is empty")
		return
	}

	if s.invoicer == nil || !s.invoicer.IsConfigured() {
		s.writeError(w, http.StatusServiceUnavailable, "invoicing API not configured")
		return
	}

	resp, err := s.invoicer.CreateReminderSchedule(r.Context(), &invoicer.ReminderScheduleRequest{
		ClientID:  req.ClientID,
		InvoiceID: req.InvoiceID,
		Schedule:  payload,
	})
	if err != nil {
		s.log.Error().Err(err).Str("client_id", req.ClientID).Msg("submit schedule")
		s.writeError(w, http.StatusBadGateway, "submission failed")
		return
	}

	if req.DraftID != "" {
		raw, _ := json.Marshal(payload)
		sub := &domain.Submission{
			DraftID:  req.DraftID,
			Payload:  string(raw),
			RemoteID: resp.ID,
		}
		if err := s.storage.CreateSubmission(sub); err != nil {
			s.log.Error().Err(err).Str("draft_id", req.DraftID).Msg("record submission")
		}
	}

	s.writeJSON(w, http.StatusOK, submitResponse{
		RemoteID: resp.ID,
		Payload:  payload,
	})
}

// handleCalendar serves the occurrence preview of a stored draft as an
// iCalendar document.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/schedule/calendar/")
	id = strings.TrimSuffix(id, ".ics")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	draft, err := s.storage.GetDraft(id)
	if err != nil {
		s.log.Error().Err(err).Str("draft_id", id).Msg("get draft")
		s.writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if draft == nil {
		s.writeError(w, http.StatusNotFound, "draft not found")
		return
	}

	var value domain.ReminderScheduleSummaryValue
	if err := json.Unmarshal([]byte(draft.Params), &value); err != nil {
		s.writeError(w, http.StatusInternalServerError, "corrupt draft params")
		return
	}

	cal, err := s.export.BuildCalendar(domain.SummaryFromWire(value))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeICS(w, cal)
}
