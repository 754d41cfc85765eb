package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/metadata"
	"github.com/goliatone/go-uigen/pkg/orchestrator"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve contracts and generated modules over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, store, logger, err := newPipeline()
			if err != nil {
				return err
			}

			router := chi.NewRouter()
			router.Use(middleware.RequestID)
			router.Use(middleware.RealIP)
			router.Use(middleware.Recoverer)
			router.Use(middleware.Timeout(30 * time.Second))

			srv := &server{orch: orch, logger: logger}
			router.Get("/api/doctypes", func(w http.ResponseWriter, _ *http.Request) {
				srv.respond(w, http.StatusOK, store.Names())
			})
			router.Get("/api/contracts/{doctype}", srv.handleContract)
			router.Post("/api/contracts/{doctype}/invalidate", srv.handleInvalidate)
			router.Get("/api/files/{doctype}", srv.handleFiles)

			logger.Info("serving ui contracts", zap.String("addr", addr))
			return http.ListenAndServe(addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8130", "listen address")
	return cmd
}

type server struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func (s *server) preset(r *http.Request) string {
	if preset := r.URL.Query().Get("preset"); preset != "" {
		return preset
	}
	return viper.GetString("preset")
}

func (s *server) handleContract(w http.ResponseWriter, r *http.Request) {
	docType := chi.URLParam(r, "doctype")
	uic, err := s.orch.BuildContract(r.Context(), docType, s.preset(r))
	if err != nil {
		s.fail(w, docType, err)
		return
	}
	s.respond(w, http.StatusOK, uic)
}

func (s *server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	docType := chi.URLParam(r, "doctype")
	s.orch.Invalidate(docType)
	s.respond(w, http.StatusOK, map[string]string{"invalidated": docType})
}

func (s *server) handleFiles(w http.ResponseWriter, r *http.Request) {
	docType := chi.URLParam(r, "doctype")
	files, err := s.orch.GenerateFiles(r.Context(), docType, s.preset(r))
	if err != nil {
		s.fail(w, docType, err)
		return
	}

	type generatedFile struct {
		Path     string `json:"path"`
		Contents string `json:"contents"`
	}
	payload := make([]generatedFile, 0, len(files))
	for _, file := range files {
		payload = append(payload, generatedFile{Path: file.Path, Contents: string(file.Contents)})
	}
	s.respond(w, http.StatusOK, payload)
}

func (s *server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *server) fail(w http.ResponseWriter, docType string, err error) {
	s.logger.Warn("request failed", zap.String("doctype", docType), zap.Error(err))
	status := http.StatusInternalServerError
	if isNotFound(err) {
		status = http.StatusNotFound
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}

func isNotFound(err error) bool {
	return errors.Is(err, metadata.ErrNotFound)
}
