package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/emersion/go-ical"
	"github.com/rs/zerolog"

	"github.com/ambegrouplimited/reminderd/config"
	"github.com/ambegrouplimited/reminderd/internal/clients/invoicer"
	"github.com/ambegrouplimited/reminderd/internal/service"
	"github.com/ambegrouplimited/reminderd/internal/storage"
)

// APIResponse is the common JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InvoiceSubmitter is the slice of the invoicing client the API needs.
type InvoiceSubmitter interface {
	IsConfigured() bool
	CreateReminderSchedule(ctx context.Context, req *invoicer.ReminderScheduleRequest) (*invoicer.ReminderScheduleResponse, error)
}

// Server exposes the schedule editing surface: draft autosave, hydration,
// occurrence preview, submission and calendar export.
type Server struct {
	cfg      *config.Config
	schedule *service.ScheduleService
	export   *service.ExportService
	storage  *storage.Storage
	invoicer InvoiceSubmitter
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*service.DraftAutosaver
	newSaver func() *service.DraftAutosaver
}

func NewServer(cfg *config.Config, schedule *service.ScheduleService, export *service.ExportService,
	store *storage.Storage, inv InvoiceSubmitter, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		schedule: schedule,
		export:   export,
		storage:  store,
		invoicer: inv,
		log:      log,
		sessions: make(map[string]*service.DraftAutosaver),
		newSaver: func() *service.DraftAutosaver {
			return service.NewDraftAutosaver(store, log, cfg.AutosaveDebounce)
		},
	}
}

// Routes registers the API handlers. The API is disabled when credentials are
// not configured.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	if s.cfg.APIUsername == "" || s.cfg.APIPassword == "" {
		s.log.Warn().Msg("API credentials not set, API disabled")
		return mux
	}

	mux.HandleFunc("/api/drafts", s.basicAuth(s.handleDrafts))
	mux.HandleFunc("/api/drafts/flush", s.basicAuth(s.handleFlush))
	mux.HandleFunc("/api/draft/", s.basicAuth(s.handleDraft))
	mux.HandleFunc("/api/schedule/preview", s.basicAuth(s.handlePreview))
	mux.HandleFunc("/api/schedule/submit", s.basicAuth(s.handleSubmit))
	mux.HandleFunc("/api/schedule/calendar/", s.basicAuth(s.handleCalendar))
	return mux
}

// Close cancels all pending autosave timers.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, saver := range s.sessions {
		saver.Close()
	}
	s.sessions = make(map[string]*service.DraftAutosaver)
}

// saver returns the per-client autosaver, creating it on first use.
func (s *Server) saver(clientID string) *service.DraftAutosaver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if saver, ok := s.sessions[clientID]; ok {
		return saver
	}
	saver := s.newSaver()
	s.sessions[clientID] = saver
	return saver
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.APIUsername)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.APIPassword)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="reminderd"`)
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: msg})
}

func (s *Server) writeICS(w http.ResponseWriter, cal *ical.Calendar) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		s.log.Error().Err(err).Msg("encode calendar")
	}
}
