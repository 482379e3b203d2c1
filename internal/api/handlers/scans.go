package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/scan"
)

// ScanHandler serves the public scan ingestion endpoint. Scans arrive from
// QR redirect pages, so there is no required caller; a valid bearer token
// attributes the scan to the logged-in user.
type ScanHandler struct {
	recorder *scan.Recorder
	codec    *auth.TokenCodec
}

func NewScanHandler(recorder *scan.Recorder, codec *auth.TokenCodec) *ScanHandler {
	return &ScanHandler{recorder: recorder, codec: codec}
}

func (h *ScanHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req scan.RecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = r.RemoteAddr
	}
	if req.UserID == nil {
		if id, ok := h.bearerUserID(r); ok {
			req.UserID = &id
		}
	}

	result, err := h.recorder.Record(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// bearerUserID attributes the scan when a token happens to be present. A bad
// token just leaves the scan anonymous; this endpoint never 401s.
func (h *ScanHandler) bearerUserID(r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil, false
	}
	claims, err := h.codec.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return uuid.Nil, false
	}
	userID, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
