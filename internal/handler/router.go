package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the ledger routes. protect is applied to the routes that
// change ledger state.
func NewRouter(h *Handler, protect ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/payment-types", h.PaymentTypes).Methods(http.MethodGet)
	r.HandleFunc("/account/{account_number}", h.GetAccount).Methods(http.MethodGet)
	r.HandleFunc("/transaction/{id}", h.GetTransaction).Methods(http.MethodGet)

	// Ledger writes
	writes := r.NewRoute().Subrouter()
	writes.Use(protect...)
	writes.HandleFunc("/account", h.CreateAccount).Methods(http.MethodPost)
	writes.HandleFunc("/transaction", h.PostTransaction).Methods(http.MethodPost)

	return r
}
