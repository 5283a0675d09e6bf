package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/rocketscienceinc/dice-backend/internal/presenter"
	"github.com/rocketscienceinc/dice-backend/internal/usecase"
	"github.com/rocketscienceinc/dice-backend/transport/session"
)

const maxBodyBytes = 1 << 10

type diceCountRequest struct {
	Count *int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers serve the page and the JSON API. Requests that are not valid in the
// current state of the table still answer 200 with the unchanged view.
type Handlers struct {
	logger   *slog.Logger
	sessions session.Manager
	opts     presenter.Options
}

func NewHandlers(logger *slog.Logger, sessions session.Manager, opts presenter.Options) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		opts:     opts,
	}
}

func (that *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	current := that.session(w, r)

	templ.Handler(presenter.Page(that.view(current))).ServeHTTP(w, r)
}

func (that *Handlers) State(w http.ResponseWriter, r *http.Request) {
	that.writeView(w, that.session(w, r))
}

func (that *Handlers) SetDiceCount(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SetDiceCount")

	current := that.session(w, r)

	var request diceCountRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		log.Debug("malformed dice count request", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if request.Count == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "count is required"})
		return
	}

	current.SetDiceCount(*request.Count)

	that.writeView(w, current)
}

func (that *Handlers) StartRoll(w http.ResponseWriter, r *http.Request) {
	current := that.session(w, r)
	current.StartRoll()

	that.writeView(w, current)
}

func (that *Handlers) StopRoll(w http.ResponseWriter, r *http.Request) {
	current := that.session(w, r)
	current.StopRoll()

	that.writeView(w, current)
}

func (that *Handlers) ResetHistory(w http.ResponseWriter, r *http.Request) {
	current := that.session(w, r)
	current.ResetHistory()

	that.writeView(w, current)
}

func (that *Handlers) session(w http.ResponseWriter, r *http.Request) *usecase.Session {
	current, cookie := session.Resolve(r, that.sessions)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}

	return current
}

func (that *Handlers) view(current *usecase.Session) presenter.View {
	snapshot := current.Snapshot()

	return presenter.Present(snapshot.State, snapshot.Narration, that.opts)
}

func (that *Handlers) writeView(w http.ResponseWriter, current *usecase.Session) {
	that.writeJSON(w, http.StatusOK, that.view(current))
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	log := that.logger.With("method", "writeJSON")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug("failed to write response", "error", err)
	}
}
