// Package api serves the game over HTTP: JSON queries and actions under /api/v1,
// a websocket state stream and Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/napolitain/nation-builder/internal/achievements"
	"github.com/napolitain/nation-builder/internal/actions"
	"github.com/napolitain/nation-builder/internal/economy"
	"github.com/napolitain/nation-builder/internal/game"
	"github.com/napolitain/nation-builder/internal/metrics"
	"github.com/napolitain/nation-builder/internal/models"
	"github.com/napolitain/nation-builder/internal/tutorial"
)

// Server serves one game over HTTP
type Server struct {
	Game    *game.Game
	Hub     *Hub             // nil disables /api/v1/stream
	Metrics *metrics.Metrics // nil disables /metrics
	Logger  *slog.Logger
}

// View is the full presentation payload: state plus derived queries
type View struct {
	State    *models.GameState `json:"state"`
	Rates    models.Resources  `json:"rates"`
	Offers   []actions.Offer   `json:"offers"`
	Tutorial tutorial.Status   `json:"tutorial"`
}

// NewView derives a view from a snapshot
func NewView(s *models.GameState, b *models.Balance) View {
	return View{
		State:    s,
		Rates:    economy.Rates(s, b),
		Offers:   actions.Offers(s, b),
		Tutorial: tutorial.Get(s),
	}
}

// ActionRequest is the body of POST /api/v1/actions
type ActionRequest struct {
	Action string `json:"action"`
	Bulk   bool   `json:"bulk"`  // buy several levels of an institution
	Count  int    `json:"count"` // with Bulk: levels to buy, 0 = as many as affordable
}

// ActionResponse reports a resolver result with the resulting view
type ActionResponse struct {
	Result actions.Result `json:"result"`
	Error  string         `json:"error,omitempty"`
	View   View           `json:"view"`
}

// AchievementView is one row of GET /api/v1/achievements
type AchievementView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Unlocked bool   `json:"unlocked"`
}

// Handler returns the HTTP handler with all routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Queries
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/rates", s.handleRates)
	mux.HandleFunc("GET /api/v1/offers", s.handleOffers)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/achievements", s.handleAchievements)
	mux.HandleFunc("GET /api/v1/tutorial", s.handleTutorial)

	// Commands
	mux.HandleFunc("POST /api/v1/actions", s.handleAction)
	mux.HandleFunc("POST /api/v1/elections", s.handleForceElection)
	mux.HandleFunc("POST /api/v1/tutorial/next", s.handleTutorialNext)
	mux.HandleFunc("POST /api/v1/tutorial/skip", s.handleTutorialSkip)
	mux.HandleFunc("POST /api/v1/save", s.handleSave)
	mux.HandleFunc("POST /api/v1/reset", s.handleReset)

	if s.Hub != nil {
		mux.HandleFunc("GET /api/v1/stream", s.Hub.ServeWS)
	}
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) view() View {
	return NewView(s.Game.Snapshot(), s.Game.Balance())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Rates())
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Offers())
}

// handleEvents returns the log, most recent first. ?limit=N trims it.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Game.Snapshot().Events
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(events) {
			events = events[:limit]
		}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	snap := s.Game.Snapshot()
	b := s.Game.Balance()
	views := make([]AchievementView, 0, len(achievements.Definitions))
	for _, def := range achievements.Definitions {
		id := def.ID
		info := b.Achievements[id]
		views = append(views, AchievementView{
			ID:       id,
			Title:    b.AchievementTitle(id),
			Desc:     info.Desc,
			Unlocked: snap.HasAchievement(id),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTutorial(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Tutorial())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == actions.NameForceElection {
		s.writeResult(w, s.Game.ForceElection())
		return
	}

	a, err := actions.Parse(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count < 0 {
		writeError(w, http.StatusBadRequest, "count must be non-negative")
		return
	}

	var res actions.Result
	if req.Bulk {
		res = s.Game.Bulk(a, req.Count)
	} else {
		res = s.Game.Do(a)
	}
	s.writeResult(w, res)
}

func (s *Server) handleForceElection(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, s.Game.ForceElection())
}

// writeResult answers 200 for applied actions and 409 for rejected ones
func (s *Server) writeResult(w http.ResponseWriter, res actions.Result) {
	resp := ActionResponse{Result: res, View: s.view()}
	status := http.StatusOK
	if res.Err != nil {
		resp.Error = res.Err.Error()
		status = http.StatusConflict
		if errors.Is(res.Err, actions.ErrNotBulk) {
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleTutorialNext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.TutorialNext())
}

func (s *Server) handleTutorialSkip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.TutorialSkip())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.Game.Save(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.Game.Reset(r.Context()); err != nil {
		// The in-memory state is already fresh; only the stored save survived.
		s.logger().Warn("reset could not delete save", "error", err)
	}
	writeJSON(w, http.StatusOK, s.view())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
