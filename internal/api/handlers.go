/**
 * @description
 * This file contains the HTTP handlers for the ledger-service's API endpoints.
 * Handlers are responsible for parsing incoming requests, calling the appropriate
 * methods on the application service, and writing the HTTP response. They own the
 * boundary concerns the core never sees: decimal amount strings, ISO-8601 dates,
 * JSON-or-form bodies and the mapping of ledger errors onto status codes.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: For URL parameters.
 * - github.com/shopspring/decimal: Amounts arrive as JSON numbers or strings.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/corebank/ledger-service/internal/app"
	"github.com/corebank/ledger-service/internal/domain"
	"github.com/corebank/ledger-service/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// LedgerHandlers holds the application service that handlers will use.
type LedgerHandlers struct {
	service *app.Service
}

// NewLedgerHandlers creates a new instance of LedgerHandlers.
func NewLedgerHandlers(service *app.Service) *LedgerHandlers {
	return &LedgerHandlers{service: service}
}

// moneyRequest is the body of deposit and withdraw requests. Amount accepts both
// a JSON number and a quoted decimal string.
type moneyRequest struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// DepositHandler handles POST /deposit.
func (h *LedgerHandlers) DepositHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber, amount, ok := h.parseMoneyRequest(w, r)
	if !ok {
		return
	}
	tx, err := h.service.Deposit(r.Context(), accountNumber, amount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

// WithdrawHandler handles POST /withdraw.
func (h *LedgerHandlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber, amount, ok := h.parseMoneyRequest(w, r)
	if !ok {
		return
	}
	tx, err := h.service.Withdraw(r.Context(), accountNumber, amount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

// MiniStatementHandler handles GET /mini_statement/{accountNumber}: the ten most
// recent transactions, newest-first.
func (h *LedgerHandlers) MiniStatementHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")
	txs, err := h.service.MiniStatement(r.Context(), accountNumber)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	h.writeJSON(w, http.StatusOK, txs)
}

// DownloadStatementHandler handles GET /download_statement/{accountNumber}.
// Optional start_date/end_date query parameters bound the statement inclusively;
// the type parameter selects the export format (only csv is supported).
func (h *LedgerHandlers) DownloadStatementHandler(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	from, err := parseBoundaryDate(r.URL.Query().Get("start_date"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	to, err := parseBoundaryDate(r.URL.Query().Get("end_date"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	data, err := h.service.ExportStatement(r.Context(), accountNumber, from, to, r.URL.Query().Get("type"))
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseMoneyRequest reads the account number and amount from a JSON or form body,
// converting the amount to minor units. On failure it writes the error response
// and returns ok=false.
func (h *LedgerHandlers) parseMoneyRequest(w http.ResponseWriter, r *http.Request) (accountNumber string, amount int64, ok bool) {
	var rawAmount func() (int64, error)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req moneyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return "", 0, false
		}
		accountNumber = req.AccountNumber
		rawAmount = func() (int64, error) { return domain.AmountToMinorUnits(req.Amount) }
	} else {
		if err := r.ParseForm(); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return "", 0, false
		}
		accountNumber = r.PostFormValue("account_number")
		rawAmount = func() (int64, error) { return domain.ParseAmount(r.PostFormValue("amount")) }
	}

	if strings.TrimSpace(accountNumber) == "" {
		h.writeError(w, http.StatusBadRequest, "invalid account number or amount")
		return "", 0, false
	}
	amount, err := rawAmount()
	if err != nil {
		h.writeLedgerError(w, err)
		return "", 0, false
	}
	return accountNumber, amount, true
}

// parseBoundaryDate accepts an ISO-8601 timestamp (RFC3339) or a plain
// YYYY-MM-DD date, interpreted as that day's midnight UTC. An empty value means
// no bound.
func parseBoundaryDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeLedgerError maps the ledger's error taxonomy onto HTTP status codes.
func (h *LedgerHandlers) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		h.writeError(w, http.StatusBadRequest, "invalid account number or amount")
	case errors.Is(err, store.ErrAccountNotFound):
		h.writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, store.ErrInsufficientFunds):
		h.writeError(w, http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, domain.ErrUnsupportedFormat):
		h.writeError(w, http.StatusBadRequest, "unsupported statement format")
	default:
		log.Printf("level=error component=api msg=\"ledger operation failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON is a helper for writing JSON responses.
func (h *LedgerHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *LedgerHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
