package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/account-ledger/internal/service"
	"github.com/gorilla/mux"
)

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAccountInput
	if err := decodeBody(r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse{
		AccountNumber: account.AccountNumber,
		Balance:       number(account.Balance),
	})
}

// GetAccount handles account lookup by number. Unknown or malformed numbers
// get an empty 404.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.ParseInt(mux.Vars(r)["account_number"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	account, err := h.svc.GetAccount(r.Context(), num)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if account == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{
		AccountNumber: account.AccountNumber,
		Balance:       number(account.Balance),
	})
}
