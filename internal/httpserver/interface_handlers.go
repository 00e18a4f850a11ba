package httpserver

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"go-abi-cache/internal/cache/service"
)

// handleFetch resolves bytecode into its interface, decompiling on a cache miss
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req InterfaceRequest
	if err := s.parseRequest(w, r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", "", http.StatusBadRequest)
		return
	}

	if req.Bytecode == "" {
		s.writeErrorResponse(w, "Missing required field: bytecode", "", http.StatusBadRequest)
		return
	}

	result, err := s.fetcher.FetchInterface(r.Context(), req.Bytecode)
	if err != nil {
		kind, _ := service.KindOf(err)
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Interface fetch failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		s.writeErrorResponse(w, err.Error(), string(kind), status)
		return
	}

	s.writeResponse(w, &InterfaceResponse{
		Success:  true,
		Key:      result.Key,
		Source:   result.Source,
		Records:  newRecordViews(result.Records),
		Rejected: result.Rejected,
	})
}

// handleKey returns the cache key for bytecode without touching the store
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req InterfaceRequest
	if err := s.parseRequest(w, r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", "", http.StatusBadRequest)
		return
	}

	if req.Bytecode == "" {
		s.writeErrorResponse(w, "Missing required field: bytecode", "", http.StatusBadRequest)
		return
	}

	s.writeResponse(w, &KeyResponse{
		Success: true,
		Key:     s.fetcher.DeriveKey(req.Bytecode),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrDecompileFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
