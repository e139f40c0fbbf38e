package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
	"github.com/gorilla/mux"
)

func (h *SummaryHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusCreated, h.service.CreateSession())
}

func (h *SummaryHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSession(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *SummaryHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectDocument replaces the session's document with the uploaded file.
func (h *SummaryHandler) SelectDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Unknown sessions fail before the upload is read
	if _, err := h.service.GetSession(id); err != nil {
		h.respondError(w, err)
		return
	}

	req, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	snap, err := h.service.SelectDocument(id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *SummaryHandler) ClearDocument(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ClearDocument(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *SummaryHandler) SetLength(w http.ResponseWriter, r *http.Request) {
	var body models.LengthRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	snap, err := h.service.SetLength(mux.Vars(r)["id"], body.Length)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// Generate blocks until the request settles. A failed request is still a
// 200: the failure is part of the returned state.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Generate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// GetSessionSummary returns the current summary as raw markdown.
func (h *SummaryHandler) GetSessionSummary(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.SessionSummary(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (h *SummaryHandler) GetSessionHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.SessionHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": recs,
		"count":     len(recs),
	})
}
