package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type screeningResult struct {
	Filename  string            `json:"filename"`
	Status    string            `json:"status"`
	Candidate *domain.Candidate `json:"candidate,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type batchResponse struct {
	Results  []screeningResult `json:"results"`
	Screened int               `json:"screened"`
	Failed   int               `json:"failed"`
}

type candidateListResponse struct {
	Candidates []domain.Candidate `json:"candidates"`
	Count      int                `json:"count"`
}

// screenCandidates accepts one resume in field "file" or several in repeated
// "files" fields. A single "file" answers with the candidate itself; batches
// answer with per-file results.
func (rt *Router) screenCandidates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, err)
			return
		}
		writeBadRequest(w, r, "multipart form with field 'files' or 'file' is required")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	if files := r.MultipartForm.File["files"]; len(files) > 0 {
		rt.screenBatch(w, r, files)
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeBadRequest(w, r, "multipart field 'files' or 'file' is required")
		return
	}
	if len(files) > 1 {
		rt.screenBatch(w, r, files)
		return
	}

	fh := files[0]
	file, err := fh.Open()
	if err != nil {
		writeError(w, r, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()
	rt.recordUpload(fh.Size)

	candidate, err := rt.screener.Screen(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}

func (rt *Router) screenBatch(w http.ResponseWriter, r *http.Request, files []*multipart.FileHeader) {
	uploads := make([]domain.Upload, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			writeError(w, r, err)
			return
		}
		rt.recordUpload(fh.Size)
		uploads = append(uploads, domain.Upload{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	outcomes := rt.screener.ScreenBatch(r.Context(), uploads)
	resp := batchResponse{Results: make([]screeningResult, 0, len(outcomes))}
	for _, outcome := range outcomes {
		result := screeningResult{Filename: outcome.Filename}
		if outcome.Err != nil {
			result.Status = "failed"
			result.Error = outcome.Err.Error()
			resp.Failed++
		} else {
			result.Status = "screened"
			result.Candidate = outcome.Candidate
			resp.Screened++
		}
		resp.Results = append(resp.Results, result)
	}
	writeJSON(w, http.StatusOK, resp)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}

func (rt *Router) listCandidates(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCandidateFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	candidates, err := rt.candidates.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordRead("json")
	writeJSON(w, http.StatusOK, candidateListResponse{Candidates: candidates, Count: len(candidates)})
}

func (rt *Router) exportCandidates(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCandidateFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := rt.candidates.Export(r.Context(), &buf, filter); err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordRead("xlsx")

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) getCandidateByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeBadRequest(w, r, "candidate id is required")
		return
	}

	candidate, err := rt.candidates.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    *string            `json:"text"`
		Weights map[string]float64 `json:"weights"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, err)
			return
		}
		writeBadRequest(w, r, "invalid json")
		return
	}
	if req.Text == nil {
		writeBadRequest(w, r, "text is required")
		return
	}

	var weights domain.ScoreWeights
	if req.Weights != nil {
		weights = domain.ScoreWeights(req.Weights)
	}
	analysis, err := rt.analyzer.Analyze(r.Context(), *req.Text, weights)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func parseCandidateFilter(r *http.Request) (domain.CandidateFilter, error) {
	var filter domain.CandidateFilter
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("min_score")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, domain.WrapError(domain.ErrInvalidInput, "parse min_score", err)
		}
		filter.MinScore = v
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, domain.WrapError(domain.ErrInvalidInput, "parse limit", fmt.Errorf("invalid limit %q", raw))
		}
		filter.Limit = v
	}
	return filter, nil
}

func (rt *Router) recordUpload(size int64) {
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, int(size))
	}
}

func (rt *Router) recordRead(format string) {
	if rt.metrics != nil {
		rt.metrics.RecordCandidateRead(serviceName, format)
	}
}
