package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/account-ledger/internal/service"
	"github.com/gorilla/mux"
)

// PostTransaction handles transaction posting
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var in service.PostTransactionInput
	if err := decodeBody(r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	res, err := h.svc.PostTransaction(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse{
		AccountNumber: res.AccountNumber,
		Balance:       number(res.Balance),
	})
}

// GetTransaction handles transaction lookup by id
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, transactionResponse{
		ID:            t.ID,
		AccountNumber: t.AccountNumber,
		PaymentType:   t.PaymentTypeCode,
		Value:         number(t.Value),
		Fee:           number(t.Fee),
		CreatedAt:     t.CreatedAt,
	})
}
