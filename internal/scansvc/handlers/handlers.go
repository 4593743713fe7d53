package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/qrcodesmart/qr-services/internal/comm"
	"github.com/qrcodesmart/qr-services/internal/qr"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
)

type Handler struct {
	resolver *qr.Resolver
	scans    *store.ScanLogStore
	nc       *nats.Conn
}

func NewHandler(resolver *qr.Resolver, scans *store.ScanLogStore, nc *nats.Conn) *Handler {
	return &Handler{
		resolver: resolver,
		scans:    scans,
		nc:       nc,
	}
}

// ScanHandler is the public resolution endpoint. It maps engine outcomes to
// HTTP: Redirect becomes a 302, Render becomes a page, rejections become the
// matching 4xx, and a store failure is a 503 the scanner may retry.
func (h *Handler) ScanHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userAgent := r.Header.Get("User-Agent")

	log.Infof("scanning qr: %s", id)

	outcome, rec, err := h.resolver.Resolve(r.Context(), id, userAgent)
	if err != nil {
		// the increment may or may not have landed; nothing to record
		log.Errorf("scan resolution failed for %s: %v", id, err)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.recordScan(id, rec, outcome, userAgent, r.RemoteAddr)

	switch outcome.Kind {
	case qr.KindRedirect:
		http.Redirect(w, r, outcome.RedirectURL, http.StatusFound)

	case qr.KindRender:
		renderPage(w, outcome.Render)

	case qr.KindRejected:
		h.writeRejection(w, outcome.Reason)
	}
}

func (h *Handler) writeRejection(w http.ResponseWriter, reason qr.Reason) {
	switch reason {
	case qr.ReasonNotFound:
		http.Error(w, "QR code not found", http.StatusNotFound)
	case qr.ReasonDisabledOrLimit:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<h2>QR Disabled or Scan Limit Reached</h2>"))
	case qr.ReasonInvalidContent:
		http.Error(w, "Invalid QR content", http.StatusBadRequest)
	case qr.ReasonUnknownType:
		http.Error(w, "Invalid QR type", http.StatusBadRequest)
	default:
		http.Error(w, "Invalid QR", http.StatusBadRequest)
	}
}

// recordScan publishes the scan event and writes the history row without
// blocking the response.
func (h *Handler) recordScan(id string, rec *qr.ResolvedRecord, outcome qr.Outcome, userAgent, remoteAddr string) {
	event := comm.ScanEvent{
		QrId:      id,
		Outcome:   string(outcome.Kind),
		Reason:    string(outcome.Reason),
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}
	if rec != nil {
		event.OwnerId = rec.OwnerId.Hex()
		event.QrType = rec.Type
		event.ScanCount = rec.ScanCount
	}

	if data, err := json.Marshal(event); err == nil {
		if err := h.nc.Publish(comm.ScanEventsTopic, data); err != nil {
			log.Errorf("failed to publish scan event for %s: %v", id, err)
		}
	}

	entry := &models.ScanLog{
		QrId:      id,
		QrType:    event.QrType,
		ScanNo:    event.ScanCount,
		Outcome:   string(outcome.Kind),
		Reason:    string(outcome.Reason),
		UserAgent: userAgent,
		RemoteIp:  remoteAddr,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.scans.Insert(ctx, entry); err != nil {
			log.Errorf("failed to record scan history for %s: %v", id, err)
		}
	}()
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "scan service is running at port " + os.Getenv("SCAN_SERVICE_PORT"),
		Code:    200,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
