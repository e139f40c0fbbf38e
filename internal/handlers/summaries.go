package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
	"github.com/gorilla/mux"
)

const defaultListLimit = 20

// Summarize runs a one-shot request: upload, validate, summarize and record.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	req, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.Summarize(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.service.GetSummary(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *SummaryHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondError(w, utils.NewBadRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	recs, err := h.service.ListSummaries(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": recs,
		"count":     len(recs),
	})
}

// GetSummaryDocument streams back the archived original of a summary.
func (h *SummaryHandler) GetSummaryDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := h.service.GetArchivedDocument(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
