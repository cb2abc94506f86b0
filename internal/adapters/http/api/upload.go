// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/watchkeep/internal/app"
	"github.com/okian/watchkeep/internal/domain/admission"
	"github.com/okian/watchkeep/internal/domain/record"
	"github.com/okian/watchkeep/pkg/logger"
)

// Upload form fields. The website field is a decoy invisible to human users.
const (
	submissionField = "submission"
	honeypotField   = "website"

	maxUploadBytes = 10 << 20
)

// UploadHandler handles submission uploads.
type UploadHandler struct {
	deps Dependencies
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies) *UploadHandler {
	return &UploadHandler{deps: deps}
}

// HandleUpload handles POST /upload requests: a multipart form with the CSV
// file under "submission" and the honeypot under "website". Pipeline errors
// map to status codes here; aggregation runs after the response and never
// affects it.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	file, header, err := r.FormFile(submissionField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No submission file provided.")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "Empty filename.")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		logger.Get().Error(r.Context(), "reading upload failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	err = h.deps.Ingest(r.Context(), content, header.Filename, clientIdentity(r), r.FormValue(honeypotField))

	var rateLimited *admission.RateLimitedError
	var invalid *record.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
	case errors.As(err, &rateLimited):
		writeError(w, http.StatusTooManyRequests, retryMessage(rateLimited.RetryAfter))
	case errors.Is(err, admission.ErrBotRejected):
		writeError(w, http.StatusBadRequest, "Submission rejected.")
	case errors.Is(err, service.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, "Invalid CSV file. Expected a header row and at least one data row.")
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
	default:
		logger.Get().Error(r.Context(), "ingest failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

// retryMessage renders the remaining rate-limit wait as whole hours and
// minutes for the response body.
func retryMessage(retryAfter time.Duration) string {
	secs := int(retryAfter.Seconds())
	return fmt.Sprintf("Rate limit exceeded. Please wait %dh %dm before submitting again.", secs/3600, secs%3600/60)
}

// clientIdentity derives the rate-limit identity from the request: the first
// X-Forwarded-For hop when present (the service typically runs behind a
// proxy), otherwise the connection's remote address.
func clientIdentity(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
