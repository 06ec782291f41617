package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/analyzer"
	"github.com/orcasound-tools/shipnoise-analyzer/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service *analyzer.Service
	config  *ServerConfig
	log     *logger.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DataRoot       string
	WindowSize     int
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service *analyzer.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleLocations handles GET /api/locations
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	locations := s.service.Locations()
	s.respondJSON(w, http.StatusOK, LocationsResponse{
		Locations: locations,
		Count:     len(locations),
	})
}

// handleTimestamps handles GET /api/timestamps?location=&date=&start=&end=
func (s *Server) handleTimestamps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	query := RangeQuery{
		Location: r.URL.Query().Get("location"),
		Date:     r.URL.Query().Get("date"),
		Start:    r.URL.Query().Get("start"),
		End:      r.URL.Query().Get("end"),
	}
	date, start, end, err := query.Validate()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries := s.service.Timestamps(query.Location, date, start, end)
	dtos := make([]TimestampDTO, len(entries))
	for i, entry := range entries {
		dto := TimestampDTO{Key: entry.Key, Files: []ArtifactDTO{}}
		for _, a := range entry.Artifacts {
			dto.Files = append(dto.Files, ArtifactDTO{
				Kind: string(a.Kind),
				Name: filepath.Base(a.Path),
				Size: a.Size,
			})
		}
		dtos[i] = dto
	}

	s.respondJSON(w, http.StatusOK, TimestampsResponse{
		Timestamps: dtos,
		Count:      len(dtos),
	})
}

// handleGenerate handles POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, start, end, err := req.Validate()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.service.Generate(req.Location, date, start, end, req.Timestamp)
	switch {
	case errors.Is(err, analyzer.ErrUnknownTimestamp):
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, analyzer.ErrNoWAV):
		// Distinct from a missing optional artifact: without the raw
		// recording there is no primary spectrogram to show.
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.log.Errorf("generate %s/%s: %v", req.Location, req.Timestamp, err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, GenerateResponse{
		Timestamp:   report.Timestamp,
		Spectrogram: report.Spectrogram,
		PSD:         report.PSD,
		Broadband:   report.Broadband,
		Warnings:    report.Warnings,
	})
}
