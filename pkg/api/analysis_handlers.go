package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chatlens/chatlens/pkg/analysis"
)

// maxExportBytes caps the accepted upload size. Group exports run to a few
// megabytes of text at most.
const maxExportBytes = 32 << 20

// handleAnalyses handles the analyses collection
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createAnalysis(w, r)
	case http.MethodGet:
		s.listAnalyses(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createAnalysis accepts a chat export as a multipart "export" file or as
// the raw request body, runs the pipeline and returns the finished report.
func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	exportText, err := readExport(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(exportText) == "" {
		writeError(w, http.StatusBadRequest, "export file is empty")
		return
	}

	report, err := s.service.Analyze(r.Context(), exportText)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidExport) {
			writeError(w, http.StatusUnprocessableEntity, "invalid export file")
			return
		}
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// listAnalyses returns all stored reports, newest first
func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	reports := s.service.Reports().List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": reports,
		"total":    len(reports),
	})
}

// handleAnalysis returns a single report by ID
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1/analyses/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis ID required")
		return
	}

	report, ok := s.service.Reports().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// readExport extracts the export text from a multipart upload or raw body
func readExport(r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxExportBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("export")
		if err != nil {
			return "", errors.New("multipart upload must contain an \"export\" file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("failed to read export file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	return string(data), nil
}
