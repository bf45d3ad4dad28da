package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
	"github.com/sphynx-hq/sphynx/internal/github"
	"github.com/sphynx-hq/sphynx/internal/history"
	"github.com/sphynx-hq/sphynx/internal/pipeline"
)

type searchRequest struct {
	Requirement string `json:"requirement"`
}

type searchResponse struct {
	Candidates []*candidate.Scored `json:"candidates"`
}

type historyResponse struct {
	Searches []*history.Record `json:"searches"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: expected JSON with a requirement field")
		return
	}

	s.logger.Info("search requested", zap.String("requirement", req.Requirement))

	result, err := s.searcher.Search(r.Context(), req.Requirement)
	if err != nil {
		status, detail := searchFailure(err)
		s.logger.Error("search failed", zap.Int("status", status), zap.Error(err))
		writeError(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Candidates: result.Items})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, historyResponse{Searches: []*history.Record{}})
		return
	}

	records, err := s.history.Load()
	if err != nil {
		s.logger.Error("loading history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load search history")
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Searches: records})
}

// searchFailure maps pipeline errors onto transport statuses. The
// distinction matters to callers: an exhausted rate limit is fixed by
// adding a token, bad credentials are not.
func searchFailure(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyRequirement):
		return http.StatusBadRequest, "requirement must not be empty"
	case errors.Is(err, github.ErrAuth):
		return http.StatusBadGateway, "directory authentication failed: check the configured token"
	case errors.Is(err, github.ErrRateLimit):
		return http.StatusServiceUnavailable, "directory rate limit exceeded: slow down or configure an API token"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
