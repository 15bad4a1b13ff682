package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/faultline/internal/config"
	"github.com/hugo-lorenzo-mato/faultline/internal/events"
	"github.com/hugo-lorenzo-mato/faultline/internal/fsutil"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// ReportListResponse wraps a report listing.
type ReportListResponse struct {
	Reports []store.Report `json:"reports"`
	Count   int            `json:"count"`
}

// handleListReports returns all indexed reports, newest first.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("listing reports", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []store.Report{}
	}
	respondJSON(w, http.StatusOK, ReportListResponse{Reports: reports, Count: len(reports)})
}

// handleLatestReport returns the most recent report.
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	latest, err := s.store.Latest(r.Context())
	if err != nil {
		s.logger.Error("loading latest report", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load latest report")
		return
	}
	if latest == nil {
		respondError(w, http.StatusNotFound, "no reports captured")
		return
	}
	respondJSON(w, http.StatusOK, latest)
}

// handleGetReport returns one report's metadata, or with ?raw=1 the report
// file itself.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")

	rep, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("loading report", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if rep == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	if r.URL.Query().Get("raw") == "1" {
		s.serveRawReport(w, r, rep)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// serveRawReport streams the report file, scoped to the reports directory.
// Raw responses carry a strong ETag so pollers can revalidate cheaply.
func (s *Server) serveRawReport(w http.ResponseWriter, r *http.Request, rep *store.Report) {
	data, err := fsutil.ReadDirFile(s.reportsDir, rep.FileName)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(w, http.StatusNotFound, "report file missing")
			return
		}
		s.logger.Error("reading report file", "file", rep.FileName, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read report file")
		return
	}

	etag := config.CalculateETag(data)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("writing report response", "error", err)
	}
}

// handleDeleteReport removes a report from the index and from disk.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		s.logger.Error("deleting report", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	total, err := s.store.Count(r.Context())
	if err == nil {
		s.bus.Publish(events.NewReportIndexedEvent("api", 0, 1, total))
	}

	w.WriteHeader(http.StatusNoContent)
}
