package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Dan9191/account-ledger/internal/service"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Health reports whether the ledger store is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PaymentTypes lists the fee schedule
func (h *Handler) PaymentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListPaymentTypes(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]paymentTypeResponse, 0, len(types))
	for _, pt := range types {
		out = append(out, paymentTypeResponse{Code: pt.Code, Name: pt.Name, Fee: number(pt.Fee)})
	}
	writeJSON(w, http.StatusOK, out)
}
