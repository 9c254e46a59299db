// Package web is the read-only snapshot server: downstream renderers poll
// the JSON snapshot or subscribe to change pushes over a websocket. It never
// mutates the store and never sees gesture previews, only committed state.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"montage-cli/internal/model"
	"montage-cli/internal/store"
)

type Server struct {
	addr string
	s    store.Store
	log  zerolog.Logger

	hub *hub
}

// NewServer serves the store at addr. logPath redirects the structured log
// to a file; empty keeps it on stderr.
func NewServer(s store.Store, addr, logPath string) *Server {
	var out io.Writer = os.Stderr
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = f
		}
	}
	logger := zerolog.New(out).With().Timestamp().Str("component", "web").Logger()
	return &Server{
		addr: addr,
		s:    s,
		log:  logger,
		hub:  newHub(logger),
	}
}

// snapshotPayload is the wire shape of GET /api/snapshot.
type snapshotPayload struct {
	Version     int              `json:"version"`
	CurrentTime int64            `json:"currentTime"`
	Zoom        float64          `json:"zoom"`
	Tracks      []model.Track    `json:"tracks"`
	Clips       []model.Clip     `json:"clips"`
	Keyframes   []model.Keyframe `json:"keyframes"`
}

func (srv *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/snapshot", srv.handleSnapshot)
	mux.HandleFunc("GET /api/events", srv.handleEvents)
	mux.HandleFunc("GET /ws", srv.hub.handleWS)

	httpServer := &http.Server{
		Addr:              srv.addr,
		Handler:           srv.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go srv.watchStore(watchCtx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	srv.log.Info().Str("addr", srv.addr).Str("dir", srv.s.Dir).Msg("snapshot server listening")
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (srv *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	db, err := srv.s.Load()
	if err != nil {
		srv.log.Error().Err(err).Msg("load store")
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}
	payload := snapshotPayload{
		Version:     db.Version,
		CurrentTime: db.CurrentTime,
		Zoom:        db.Zoom,
		Tracks:      db.TracksOrdered(),
		Clips:       db.Clips,
		Keyframes:   db.Keyframes,
	}
	writeJSON(w, payload)
}

func (srv *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	evs, err := store.ReadEventsTail(srv.s.Dir, limit)
	if err != nil {
		srv.log.Error().Err(err).Msg("read events")
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"data": evs})
}

// watchStore pushes a change notification to websocket subscribers whenever
// another process writes the project database.
func (srv *Server) watchStore(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		srv.log.Error().Err(err).Msg("fsnotify unavailable, websocket pushes disabled")
		return
	}
	defer watcher.Close()
	if err := watcher.Add(srv.s.Dir); err != nil {
		srv.log.Error().Err(err).Str("dir", srv.s.Dir).Msg("watch store dir")
		return
	}

	// Debounce: SQLite writes arrive as bursts of WAL activity.
	var pending *time.Timer
	notify := func() {
		srv.hub.broadcast(changeNotice{
			Type:       "changed",
			EventCount: store.AppendEventCount(),
			TS:         time.Now().UTC(),
		})
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(150*time.Millisecond, notify)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			srv.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		next.ServeHTTP(w, r)
		srv.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(begin)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
