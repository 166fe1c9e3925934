// Package server exposes the sheet service over HTTP and WebSocket. The
// REST surface covers sheet lifecycle plus export/import; live editing
// flows over the WebSocket at /ws/{id}, which also receives pushes when
// another connection edits the same sheet.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/events"
	"github.com/yui-dot/apollyon-sheet/internal/rules"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
	sheetsvc "github.com/yui-dot/apollyon-sheet/internal/services/sheet"
	"github.com/yui-dot/apollyon-sheet/internal/uuid"
)

type Server struct {
	service       sheetsvc.Service
	catalog       *catalog.Catalog
	eventBus      *events.Bus
	uuidGenerator uuid.Generator
	addr          string
}

// Config holds the server's dependencies
type Config struct {
	Service       sheetsvc.Service // Required
	Catalog       *catalog.Catalog // Required
	EventBus      *events.Bus      // Required, drives WebSocket pushes
	UUIDGenerator uuid.Generator   // Optional, will use default if nil
	Addr          string
}

func New(cfg *Config) *Server {
	if cfg.Service == nil {
		panic("service is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.EventBus == nil {
		panic("event bus is required")
	}

	s := &Server{
		service:  cfg.Service,
		catalog:  cfg.Catalog,
		eventBus: cfg.EventBus,
		addr:     cfg.Addr,
	}

	if cfg.UUIDGenerator != nil {
		s.uuidGenerator = cfg.UUIDGenerator
	} else {
		s.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return s
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sheets", enableCORS(s.handleCreateSheet))
	mux.HandleFunc("GET /sheets", enableCORS(s.handleListSheets))
	mux.HandleFunc("GET /sheets/{id}", enableCORS(s.handleGetSheet))
	mux.HandleFunc("DELETE /sheets/{id}", enableCORS(s.handleDeleteSheet))
	mux.HandleFunc("GET /sheets/{id}/export", enableCORS(s.handleExport))
	mux.HandleFunc("POST /sheets/{id}/import", enableCORS(s.handleImport))
	mux.HandleFunc("GET /categories", enableCORS(s.handleCategories))
	mux.HandleFunc("GET /categories/{mote}/abilities", enableCORS(s.handleAbilities))
	mux.HandleFunc("GET /ws/{id}", s.handleWS)
	mux.HandleFunc("GET /health", enableCORS(s.handleHealth))

	return mux
}

// Run serves until ctx is cancelled, then drains with a short grace period
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server: listening on %s", s.addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

type sheetBody struct {
	Sheet     *sheet.Sheet     `json:"sheet"`
	Conflicts *rules.Conflicts `json:"conflicts,omitempty"`
}

func sheetResponse(out *sheetsvc.SheetOutput) sheetBody {
	body := sheetBody{Sheet: out.Sheet}
	if out.Conflicts != nil && !out.Conflicts.Empty() {
		body.Conflicts = out.Conflicts
	}
	return body
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	out, err := s.service.CreateSheet(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sheetResponse(out))
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListSheets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	out, err := s.service.GetSheet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheetResponse(out))
}

func (s *Server) handleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSheet(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	payload, err := s.service.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(payload)); err != nil {
		log.Printf("Server: export write failed: %v", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, apperr.InvalidArgument("failed to read request body"))
		return
	}

	out, err := s.service.Import(r.Context(), r.PathValue("id"), string(payload))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheetResponse(out))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Categories())
}

func (s *Server) handleAbilities(w http.ResponseWriter, r *http.Request) {
	mote := r.PathValue("mote")
	if !s.catalog.HasCategory(mote) {
		writeError(w, apperr.NotFoundf("mote '%s' not found", mote))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.AbilitiesFor(mote))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sheetID := r.PathValue("id")
	if _, err := s.service.GetSheet(r.Context(), sheetID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Server: upgrade error: %v", err)
		return
	}

	client := newClient(s.service, s.eventBus, conn, sheetID, s.uuidGenerator.New())

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Printf("Server: health write failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Server: response encode failed: %v", err)
	}
}

type errorBody struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	code := apperr.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperr.CodeAlreadyExists:
		status = http.StatusConflict
	case apperr.CodeImport:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}
