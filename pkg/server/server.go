// Package server exposes the service layer over a REST-ish HTTP surface:
// libraries, documents, and search.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/orneryd/ragdb/pkg/ragerr"
	"github.com/orneryd/ragdb/pkg/service"
	"github.com/orneryd/ragdb/pkg/service/dto"
)

// Server wires HTTP handlers to the service layer.
type Server struct {
	router  http.Handler
	service *service.Service
}

// New constructs a Server. corsOrigins configures the allowed Origin header
// values; an empty slice falls back to the cors package's default, which
// allows every origin.
func New(svc *service.Service, corsOrigins []string) *Server {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{router: mux, service: svc}

	mux.Post("/libraries/", s.handleCreateLibrary)
	mux.Get("/libraries/{id}", s.handleReadLibrary)
	mux.Delete("/libraries/{id}", s.handleDeleteLibrary)
	mux.Post("/documents/", s.handleCreateDocument)
	mux.Get("/documents/{id}", s.handleReadDocument)
	mux.Delete("/documents/{id}", s.handleDeleteDocument)
	mux.Post("/documents/search", s.handleSearch)

	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lib, err := s.service.CreateLibrary(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lib)
}

func (s *Server) handleReadLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	docs, err := s.service.ReadLibrary(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.DeleteLibrary(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "library deleted"})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := s.service.CreateDocument(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleReadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := s.service.ReadDocument(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.service.DeleteDocument(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := s.service.Search(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func parseID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

// writeServiceError maps a ragerr.Error's Kind to an HTTP status:
// NotFound and Conflict are reported with their corresponding status,
// everything else surfaces as 500.
func writeServiceError(w http.ResponseWriter, err error) {
	ragErr, ok := ragerr.As(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	switch ragErr.Kind {
	case ragerr.KindNotFound:
		writeError(w, http.StatusNotFound, ragErr)
	case ragerr.KindConflict:
		writeError(w, http.StatusBadRequest, ragErr)
	default:
		writeError(w, http.StatusInternalServerError, ragErr)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
