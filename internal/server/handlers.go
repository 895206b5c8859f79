package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/hiring-funnel/internal/analysis"
	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/explanation"
	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/schemas"
	"github.com/jonathan/hiring-funnel/internal/server/middleware"
	"github.com/jonathan/hiring-funnel/internal/types"
	"go.uber.org/zap"
)

// CalibrationResponse represents the response for /calibration/{level}
type CalibrationResponse struct {
	RoleLevel   types.RoleLevel          `json:"role_level"`
	Label       string                   `json:"label"`
	EarlyCareer bool                     `json:"early_career"`
	RoleContext string                   `json:"role_context,omitempty"`
	Factors     types.CalibrationFactors `json:"factors"`
}

// handleAnalyze runs a full analysis and returns the result
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs an analysis and streams each step as an SSE event
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.analyzer.AnalyzeWithProgress(ctx, req, func(e analysis.ProgressEvent) {
		// The final result is sent once as its own event.
		e.Content = nil
		if werr := sse.WriteEvent(EventProgress, e); werr != nil {
			s.log.Debug("client went away during stream", zap.Error(werr))
		}
	})
	if err != nil {
		s.log.Info("streamed analysis failed",
			zap.String(logger.FieldRequestID, middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		sse.WriteError(errorBody(err))
		sse.WriteComplete("", "failed")
		return
	}

	if err := sse.WriteEvent(EventResult, result); err != nil {
		s.log.Debug("client went away before result", zap.Error(err))
		return
	}
	sse.WriteComplete(result.AnalysisID, "completed")
}

// handleCalibration returns the calibration factors for a role level
func (s *Server) handleCalibration(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("level")
	if raw == "default" {
		raw = ""
	}
	level, err := types.ParseRoleLevel(raw)
	if err != nil {
		s.writeError(w, r, &ErrNotFound{Resource: "role level " + r.PathValue("level")})
		return
	}

	factors := calibration.Factors(level)
	s.jsonResponse(w, http.StatusOK, CalibrationResponse{
		RoleLevel:   level,
		Label:       level.Label(),
		EarlyCareer: calibration.IsEarlyCareer(level),
		RoleContext: explanation.RoleContext(level, factors),
		Factors:     factors,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads the body, checks it against the request schema and decodes it.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*types.AnalysisRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrBadRequest{Message: "request body too large"}
		}
		return nil, &ErrBadRequest{Message: "failed to read request body"}
	}
	if len(body) == 0 {
		return nil, &ErrBadRequest{Message: "request body is required"}
	}

	if err := schemas.ValidateBytes(schemas.RequestSchema, body); err != nil {
		return nil, err
	}

	var req types.AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrBadRequest{Message: "invalid request body: " + err.Error()}
	}
	return &req, nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

// writeError maps err to a status code and writes the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String(logger.FieldRequestID, middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, errorBody(err))
}
