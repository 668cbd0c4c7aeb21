package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/importer"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	mergedFileName = "updated_cfi_data"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	importSvc *importer.Service
	truthSvc  *truth.Service
	decoder   *encoding.Decoder
	maxUpload int64
}

func NewHandler(importSvc *importer.Service, truthSvc *truth.Service, decoder *encoding.Decoder, maxUpload int64) *Handler {
	return &Handler{
		importSvc: importSvc,
		truthSvc:  truthSvc,
		decoder:   decoder,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/extract", h.extract)
	r.Post("/merge", h.merge)

	r.Route("/truth", func(r chi.Router) {
		r.Get("/", h.currentTruth)
		r.Post("/", h.updateTruth)
	})
}

type recordResponse struct {
	DateRange string            `json:"date_range"`
	Values    map[string]string `json:"values"`
}

type extractResponse struct {
	TableFound  bool             `json:"table_found"`
	Records     []recordResponse `json:"records"`
	Skipped     []string         `json:"skipped,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

type tableResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Updated int        `json:"updated"`
	Skipped []string   `json:"skipped,omitempty"`
}

func (h *Handler) extract(w http.ResponseWriter, r *http.Request) {
	extraction, ok := h.importReport(w, r)
	if !ok {
		return
	}

	// Merging into an empty store yields the records in chronological order.
	sorted, err := truth.Merge(nil, extraction.Records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := extractResponse{
		TableFound:  extraction.TableFound,
		Records:     make([]recordResponse, 0, sorted.Len()),
		Skipped:     messages(extraction.Skipped),
		Diagnostics: messages(extraction.Diagnostics),
	}

	for _, key := range sorted.Keys() {
		rec, _ := sorted.Get(key)
		resp.Records = append(resp.Records, recordResponse{DateRange: key, Values: rec})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request) {
	extraction, ok := h.importReport(w, r)
	if !ok {
		return
	}

	if !extraction.TableFound {
		tableNotFound(w, extraction)
		return
	}

	current, err := h.uploadedTruth(r)
	if err != nil {
		http.Error(w, "failed to read truth file: "+err.Error(), http.StatusBadRequest)
		return
	}

	merged, err := truth.Merge(current, extraction.Records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	slog.Info("merged report", "updates", len(extraction.Records), "rows", merged.Len())

	h.writeStore(w, r.FormValue("format"), merged, extraction)
}

func (h *Handler) currentTruth(w http.ResponseWriter, r *http.Request) {
	current, err := h.truthSvc.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatCSV
	}

	h.writeStore(w, format, current, nil)
}

func (h *Handler) updateTruth(w http.ResponseWriter, r *http.Request) {
	extraction, ok := h.importReport(w, r)
	if !ok {
		return
	}

	if !extraction.TableFound {
		tableNotFound(w, extraction)
		return
	}

	merged, err := h.truthSvc.Update(r.Context(), extraction.Records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toTableResponse(merged, extraction))
}

// importReport parses the multipart form and runs the uploaded report
// through the importer. It writes the error response itself and reports
// whether the caller should continue.
func (h *Handler) importReport(w http.ResponseWriter, r *http.Request) (*truth.Extraction, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	extraction, err := h.importSvc.Import(importer.Report(r.FormValue("report")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return extraction, true
}

// uploadedTruth reads the optional "truth" form file. Without one the merge
// starts from an empty store.
func (h *Handler) uploadedTruth(r *http.Request) (*truth.Store, error) {
	file, _, err := r.FormFile("truth")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.loadTruth(file)
}

func (h *Handler) loadTruth(file multipart.File) (*truth.Store, error) {
	text, err := h.decoder.NewUTF8Reader(file)
	if err != nil {
		return nil, err
	}

	return truth.Load(text)
}

func (h *Handler) writeStore(w http.ResponseWriter, format string, s *truth.Store, extraction *truth.Extraction) {
	switch format {
	case formatCSV:
		attach(w, "text/csv; charset=utf-8", mergedFileName+".csv")
		writeFile(w, s.WriteCSV)
	case formatXLSX:
		attach(w, xlsxMIME, mergedFileName+".xlsx")
		writeFile(w, s.WriteXLSX)
	case formatJSON, "":
		writeJSON(w, http.StatusOK, toTableResponse(s, extraction))
	default:
		http.Error(w, fmt.Sprintf("unknown format: %s", format), http.StatusBadRequest)
	}
}

func toTableResponse(s *truth.Store, extraction *truth.Extraction) tableResponse {
	resp := tableResponse{
		Columns: append([]string{s.KeyColumn()}, s.Fields()...),
		Rows:    make([][]string, 0, s.Len()),
	}

	for _, key := range s.Keys() {
		resp.Rows = append(resp.Rows, append([]string{key}, s.Row(key)...))
	}

	if extraction != nil {
		resp.Updated = len(extraction.Records)
		resp.Skipped = messages(extraction.Skipped)
	}

	return resp
}

func tableNotFound(w http.ResponseWriter, extraction *truth.Extraction) {
	slog.Warn("report rejected", "diagnostics", messages(extraction.Diagnostics))

	writeJSON(w, http.StatusUnprocessableEntity, extractResponse{
		Records:     []recordResponse{},
		Diagnostics: messages(extraction.Diagnostics),
	})
}

func attach(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

func writeFile(w http.ResponseWriter, write func(io.Writer) error) {
	if err := write(w); err != nil {
		slog.Error("failed to write file", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func messages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}

	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}

	return out
}
