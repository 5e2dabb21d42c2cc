// Package server exposes the generator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukaji3/aiafill-go/pkg/aiafill"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the application data a client may post.
const maxBodyBytes = 4 << 20

// Generator is the part of *aiafill.Generator the server uses.
type Generator interface {
	Generate(ctx context.Context, companyID string, data models.InvoiceApplicationData, req aiafill.Request) (*models.Document, error)
}

// Server routes HTTP requests to a Generator.
type Server struct {
	gen    Generator
	log    *zap.Logger
	router *mux.Router
}

// New creates a Server.
func New(gen Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{gen: gen, log: log, router: mux.NewRouter()}
	s.router.Use(s.requestLogging)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/companies/{companyID}/applications", s.handleGenerate).Methods(http.MethodPost)
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	s.log.Info("starting", zap.String("addr", addr))
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyID"]

	var req aiafill.Request
	if v := r.URL.Query().Get("review"); v != "" {
		review, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_review_flag"})
			return
		}
		req.ForReview = review
	}
	req.Format = models.Format(r.URL.Query().Get("format"))

	var data models.InvoiceApplicationData
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json", "detail": err.Error()})
		return
	}

	doc, err := s.gen.Generate(r.Context(), companyID, data, req)
	if err != nil {
		status, code := classify(err)
		s.log.Warn("generation failed",
			zap.String("company_id", companyID),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, status, map[string]any{"error": code, "detail": err.Error()})
		return
	}
	if doc == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "template_not_found", "fallback": true})
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Blob)))
	w.Header().Set("X-Generation-Id", doc.Diagnostics.GenerationID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Blob)
}

// classify maps a generation failure to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, aiafill.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format"
	case errors.Is(err, aiafill.ErrInvalidDescriptor):
		return http.StatusInternalServerError, "invalid_template_descriptor"
	case errors.Is(err, aiafill.ErrTemplateFetch):
		return http.StatusBadGateway, "template_fetch_failed"
	case errors.Is(err, aiafill.ErrTemplateParse):
		return http.StatusUnprocessableEntity, "template_parse_failed"
	case errors.Is(err, aiafill.ErrTemplateWrite):
		return http.StatusInternalServerError, "template_write_failed"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
