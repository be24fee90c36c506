package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/stats"
	"github.com/pagesplit/pagesplit/internal/store"
)

type HealthResponse struct {
	Status        string `json:"status"`
	RunsCount     int    `json:"runs_count"`
	DBSizeBytes   int64  `json:"db_size_bytes"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// SampleJSON is one variant's observed rate and size.
type SampleJSON struct {
	Rate  float64 `json:"rate"`
	Count float64 `json:"count"`
}

// TestSettings must be spelled out by every caller; nothing defaults.
type TestSettings struct {
	Alpha     *float64 `json:"alpha"`
	TwoTailed *bool    `json:"two_tailed"`
}

func (t TestSettings) config() (stats.TestConfig, error) {
	if t.Alpha == nil {
		return stats.TestConfig{}, fmt.Errorf("%w: alpha is required", stats.ErrConfiguration)
	}
	if t.TwoTailed == nil {
		return stats.TestConfig{}, fmt.Errorf("%w: two_tailed is required", stats.ErrConfiguration)
	}
	return stats.NewTestConfig(*t.Alpha, *t.TwoTailed)
}

type ZTestRequest struct {
	TestSettings
	Control    SampleJSON `json:"control"`
	Treatment  SampleJSON `json:"treatment"`
	EffectSize float64    `json:"effect_size"`
}

type ZTestResponse struct {
	ZScore     float64 `json:"z_score"`
	PValue     float64 `json:"p_value"`
	RejectNull bool    `json:"reject_null"`
}

type PowerRequest struct {
	TestSettings
	ControlRate     float64  `json:"control_rate"`
	TreatmentRate   float64  `json:"treatment_rate"`
	EffectSize      float64  `json:"effect_size"`
	TargetPower     *float64 `json:"target_power,omitempty"`
	TotalSampleSize *float64 `json:"total_sample_size,omitempty"`
}

type PowerResponse struct {
	MinSampleSize *float64 `json:"min_sample_size,omitempty"`
	Power         *float64 `json:"power,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runs, err := s.store.ListRuns(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var dbSize int64
	row := s.store.DB().QueryRowContext(ctx, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	if err := row.Scan(&dbSize); err != nil {
		s.logger.Warn().Err(err).Msg("failed to read database size")
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		RunsCount:     len(runs),
		DBSizeBytes:   dbSize,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleZTest(w http.ResponseWriter, r *http.Request) {
	var req ZTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cfg, err := req.config()
	if err != nil {
		s.writeStatsError(w, err)
		return
	}

	res, err := stats.ZTest(
		stats.ProportionSample{Rate: req.Control.Rate, Count: req.Control.Count},
		stats.ProportionSample{Rate: req.Treatment.Rate, Count: req.Treatment.Count},
		req.EffectSize, cfg,
	)
	if err != nil {
		s.writeStatsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ZTestResponse{
		ZScore:     res.ZScore,
		PValue:     res.PValue,
		RejectNull: res.RejectNull,
	})
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var req PowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cfg, err := req.config()
	if err != nil {
		s.writeStatsError(w, err)
		return
	}
	if req.TargetPower == nil && req.TotalSampleSize == nil {
		s.writeStatsError(w, fmt.Errorf("%w: one of target_power or total_sample_size is required", stats.ErrConfiguration))
		return
	}

	var none stats.PowerTarget
	pp, err := stats.NewProportionPower(req.ControlRate, req.TreatmentRate, req.EffectSize, cfg, none)
	if err != nil {
		s.writeStatsError(w, err)
		return
	}

	var resp PowerResponse
	if req.TargetPower != nil {
		target, err := stats.TargetPower(*req.TargetPower)
		if err != nil {
			s.writeStatsError(w, err)
			return
		}
		n, err := pp.WithTarget(target).MinSampleSize()
		if err != nil {
			s.writeStatsError(w, err)
			return
		}
		resp.MinSampleSize = &n
	}
	if req.TotalSampleSize != nil {
		total, err := stats.TotalSampleSize(*req.TotalSampleSize)
		if err != nil {
			s.writeStatsError(w, err)
			return
		}
		p, err := pp.WithTarget(total).Power()
		if err != nil {
			s.writeStatsError(w, err)
			return
		}
		resp.Power = &p
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]report.RunJSON, len(runs))
	for i, run := range runs {
		out[i] = report.NewRunJSON(run)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("get run")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, report.NewRunJSON(run))
}

// writeStatsError maps statistics errors to 422 and everything else to 500.
func (s *Server) writeStatsError(w http.ResponseWriter, err error) {
	if errors.Is(err, stats.ErrDomain) || errors.Is(err, stats.ErrConfiguration) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.Error().Err(err).Msg("calculation failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
