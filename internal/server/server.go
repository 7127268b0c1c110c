// Package server exposes the Service aggregate over HTTP/WebSocket.
// Handlers stay thin: every read and write goes through the Service and
// its DB pool, and a PID file enforces a single daemon instance.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/service"
)

// Config describes where the HTTP API listens and where its PID file
// lives.
type Config struct {
	Port    int
	PIDPath string
}

// Server wraps the Service behind chi routes plus the websocket hub that
// pushes capture-event notifications to connected front-ends.
type Server struct {
	svc     *service.Service
	srv     *http.Server
	config  Config
	pidFile *pidFile
	hub     *Hub
	log     *zap.SugaredLogger
}

// New builds a Server over svc. It does not start listening; call Start.
func New(svc *service.Service, config Config, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pf, err := newPIDFile(config.PIDPath)
	if err != nil {
		return nil, fmt.Errorf("server: pid file: %w", err)
	}

	hub := newHub(log)
	go hub.run()
	svc.RegisterHandler(hub)

	return &Server{svc: svc, config: config, pidFile: pf, hub: hub, log: log}, nil
}

// Start checks for and replaces a stale prior instance, then listens.
func (s *Server) Start() error {
	if existingPID, err := s.pidFile.read(); err != nil {
		return fmt.Errorf("server: reading pid file: %w", err)
	} else if existingPID != 0 && isRunning(existingPID) {
		s.log.Infow("terminating existing instance", "pid", existingPID)
		if err := killProcess(existingPID); err != nil {
			return fmt.Errorf("server: terminating existing instance: %w", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err := s.pidFile.write(); err != nil {
		return fmt.Errorf("server: writing pid file: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(12 * time.Second))

	r.Get("/status", s.handleStatus)
	r.Get("/ws", s.serveWs)
	r.Route("/api", func(r chi.Router) {
		r.Get("/history", s.handleListHistory)
		r.Post("/history/{id}/pin", s.handleSetPinned)
		r.Post("/history/{id}/favorite", s.handleSetFavorite)
		r.Post("/history/{id}/mask", s.handleSetMasked)
		r.Post("/history/{id}/paste", s.handlePasteHistory)
		r.Delete("/history/{id}", s.handleDeleteHistory)

		r.Post("/clips/{id}/paste", s.handlePasteClip)
		r.Post("/clips/{id}/pin", s.handleSetClipPinned)
		r.Post("/clips/{id}/duplicate", s.handleDuplicateClip)
		r.Delete("/clips/{id}", s.handleDeleteClip)

		r.Get("/tray", s.handleTrayProjection)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/{name}", s.handlePutSetting)
	})

	s.srv = &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", s.config.Port), Handler: r}
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-time.After(150 * time.Millisecond):
		s.log.Infow("http server started", "addr", s.srv.Addr)
		return nil
	}
}

// Stop shuts the HTTP server down and removes the PID file.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
	}
	if err := s.pidFile.remove(); err != nil {
		s.log.Warnw("failed to remove pid file", "error", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := history.Query{
		Search:      q.Get("query"),
		StarredOnly: q.Get("starred") == "true",
		PinnedOnly:  q.Get("pinned") == "true",
		Limit:       atoiDefault(q.Get("limit"), 100),
		Offset:      atoiDefault(q.Get("offset"), 0),
	}
	for _, kind := range strings.Split(q.Get("kinds"), ",") {
		switch strings.TrimSpace(kind) {
		case "text":
			query.Kinds.Text = true
		case "code":
			query.Kinds.Code = true
		case "link":
			query.Kinds.Link = true
		case "video":
			query.Kinds.Video = true
		case "image":
			query.Kinds.Image = true
		case "audio":
			query.Kinds.Audio = true
		case "emoji":
			query.Kinds.Emoji = true
		case "secret":
			query.Kinds.Secret = true
		}
	}
	if langs := q.Get("languages"); langs != "" {
		query.Languages = strings.Split(langs, ",")
	}

	records, err := s.svc.History().Search(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	maskWords := s.svc.Settings.Lines(config.KeyAutoMaskWordsList)
	if !s.svc.Settings.Bool(config.KeyIsAutoMaskWordsListEnabled) {
		maskWords = nil
	}
	linkMeta, err := s.svc.History().LinkMetadataFor(records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	projections := make([]history.Projection, 0, len(records))
	for _, rec := range records {
		proj := history.Project(rec, maskWords)
		proj.LinkMetadata = linkMeta[rec.ID]
		projections = append(projections, proj)
	}
	writeJSON(w, http.StatusOK, projections)
}

func (s *Server) handleSetPinned(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.svc.History().SetPinned([]string{id}, body.Pinned); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	rec, err := s.svc.Store().GetHistoryRecord(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSetClipPinned(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.svc.Menu().SetClipsPinned([]string{id}, body.Pinned); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	item, err := s.svc.Store().GetItem(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.svc.History().SetFavorite(chi.URLParam(r, "id"), body.Favorite)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSetMasked(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Masked bool `json:"masked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.svc.History().SetMasked(chi.URLParam(r, "id"), body.Masked)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePasteHistory(w http.ResponseWriter, r *http.Request) {
	auto := r.URL.Query().Get("auto_paste") == "true"
	if err := s.svc.PasteHistoryItem(chi.URLParam(r, "id"), auto); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Store().DeleteHistoryRecord(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePasteClip(w http.ResponseWriter, r *http.Request) {
	auto := r.URL.Query().Get("auto_paste") == "true"
	outcome, err := s.svc.PasteClip(chi.URLParam(r, "id"), auto)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error(), "output": outcome.Output})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleDuplicateClip(w http.ResponseWriter, r *http.Request) {
	collectionID, err := s.svc.ActiveCollectionID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	clone, err := s.svc.Menu().Duplicate(collectionID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, clone)
}

func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	collectionID, err := s.svc.ActiveCollectionID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.svc.Menu().DeleteMenuItem(collectionID, chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrayProjection(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.TrayProjection()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings.Snapshot())
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name := chi.URLParam(r, "name")
	s.svc.Settings.Set(name, body.Value)
	if err := s.svc.Store().PutSetting(name, body.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.hub.broadcastEvent("setting:update", map[string]string{"name": name, "value": body.Value})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
