package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/account-ledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

type accountResponse struct {
	AccountNumber int64       `json:"account_number"`
	Balance       json.Number `json:"balance"`
}

type transactionResponse struct {
	ID            int64       `json:"id"`
	AccountNumber int64       `json:"account_number"`
	PaymentType   string      `json:"payment_type"`
	Value         json.Number `json:"value"`
	Fee           json.Number `json:"fee"`
	CreatedAt     time.Time   `json:"created_at"`
}

type paymentTypeResponse struct {
	Code string      `json:"code"`
	Name string      `json:"name"`
	Fee  json.Number `json:"fee"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// number renders a decimal as a bare JSON number without going through
// float64
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody decodes a single JSON value from the request body into dst. An
// empty body leaves dst untouched so that validation reports the missing
// fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.DecodeError(typeErr)
	}
	if err != nil {
		return errMalformedBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errMalformedBody
	}
	return nil
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrInvalidPaymentType):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, errMalformedBody):
		return "Malformed request body"
	case errors.Is(err, service.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, service.ErrInvalidPaymentType):
		return "Invalid payment type"
	case errors.Is(err, service.ErrInsufficientBalance):
		return "Insufficient balance"
	default:
		return "Could not process the request"
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, verr.Fields)
		return
	}

	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
	}
	writeError(w, status, errorMessage(err))
}
