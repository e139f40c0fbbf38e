package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/services"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

const DefaultMaxFileSize = 20 << 20 // 20MB

type SummaryHandler struct {
	service     services.SummaryService
	logger      *utils.Logger
	maxFileSize int64
}

func NewSummaryHandler(service services.SummaryService, logger *utils.Logger, maxFileSize int64) *SummaryHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &SummaryHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *SummaryHandler) sizeLimitError() error {
	return utils.NewBadRequestError(fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize>>20))
}

// readUpload parses the multipart "file" field. Form values stay available
// on r afterwards.
func (h *SummaryHandler) readUpload(w http.ResponseWriter, r *http.Request) (*models.SummarizeRequest, error) {
	// Reject oversized requests early
	if r.ContentLength > h.maxFileSize+(1<<20) {
		return nil, h.sizeLimitError()
	}

	// Multipart framing needs a little headroom over the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+(1<<20))

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, h.sizeLimitError()
		}
		return nil, utils.NewBadRequestError("Invalid form data")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, utils.NewBadRequestError("No file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, utils.NewInternalError("Failed to read file")
	}

	if int64(len(data)) > h.maxFileSize {
		return nil, h.sizeLimitError()
	}

	if len(data) == 0 {
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"), data)

	h.logger.Info("File upload",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType,
		"size", len(data))

	return &models.SummarizeRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		Length:      r.FormValue("length"),
	}, nil
}

// determineContentType trusts the declared part type, then the filename
// extension, then the content itself.
func determineContentType(filename, headerContentType string, data []byte) string {
	if headerContentType != "" {
		if mediaType, _, err := mime.ParseMediaType(headerContentType); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}

	return strings.Split(http.DetectContentType(data), ";")[0]
}

func (h *SummaryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *SummaryHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Error()
	} else {
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", message)
	} else {
		h.logger.Warn("Request rejected", "status", status, "error", message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
