package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/praetorlabs/praetor/internal/integrity"
)

// scanContext builds the per-request validation context. Strict mode is
// honored only when an existence checker is configured.
func (s *Server) scanContext(guildID string) *integrity.Context {
	vc := &integrity.Context{
		GuildID: guildID,
		Level:   integrity.LevelLenient,
	}
	if s.cfg.Integrity.Strict() && s.checker != nil {
		vc.Checker = s.checker
		vc.Level = integrity.LevelStrict
	}
	return vc
}

// handleScan runs an integrity scan over the guild. ?deep=true adds the
// two-hop reference checks.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	deep := r.URL.Query().Get("deep") == "true"

	vc := s.scanContext(guildID)

	var report *integrity.Report
	if deep {
		report = s.scanner.DeepScan(r.Context(), guildID, vc)
	} else {
		report = s.scanner.Scan(r.Context(), guildID, vc)
	}

	writeJSON(w, http.StatusOK, report)
}

// handleRepair scans the guild and applies every automated repair the scan
// surfaces. ?dry_run=true reports what would be repaired without touching
// storage; ?smart=true retries transient failures.
func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	dryRun := r.URL.Query().Get("dry_run") == "true"
	smart := r.URL.Query().Get("smart") == "true"

	vc := s.scanContext(guildID)
	vc.RepairMode = true

	report := s.scanner.Scan(r.Context(), guildID, vc)

	var result *integrity.RepairResult
	switch {
	case dryRun:
		result = s.engine.Repair(r.Context(), report.Issues, integrity.Options{DryRun: true})
	case smart:
		result = s.engine.SmartRepair(r.Context(), report.Issues, integrity.SmartOptions{MaxRetries: s.cfg.Integrity.MaxRetries})
	default:
		result = s.engine.Repair(r.Context(), report.Issues, integrity.Options{})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report": report,
		"result": result,
	})
}

// handleAuditList returns the guild's audit trail, newest first.
func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		writeError(w, http.StatusBadRequest, "limit must be 1-500")
		return
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be >= 0")
		return
	}

	entries, err := s.audit.ListByGuild(r.Context(), guildID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("guild_id", guildID).Msg("audit list failed")
		writeError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
