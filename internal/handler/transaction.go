package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
	"github.com/camounitropico/banco-financiera/internal/logging"
)

type transactionEngine interface {
	Deposit(ctx context.Context, accountID uuid.UUID, amount domain.Money) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID uuid.UUID, amount domain.Money) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error)
}

type TransactionHandler struct {
	engine transactionEngine
}

func NewTransactionHandler(engine transactionEngine) *TransactionHandler {
	return &TransactionHandler{engine: engine}
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (r amountRequest) parse() (domain.Money, []FieldError) {
	if r.Amount == "" {
		return domain.Money{}, []FieldError{{Field: "amount", Message: "required"}}
	}
	m, err := domain.ParseMoney(r.Amount)
	if err != nil {
		return domain.Money{}, []FieldError{{Field: "amount", Message: "must be a decimal with at most two fractional digits"}}
	}
	return m, nil
}

type transactionDTO struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Amount     string    `json:"amount"`
	AccountID  uuid.UUID `json:"account_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:         t.ID,
		Type:       string(t.Type),
		Amount:     t.Amount.String(),
		AccountID:  t.AccountID,
		OccurredAt: t.OccurredAt,
	}
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applySingle(w, r, h.engine.Deposit)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applySingle(w, r, h.engine.Withdraw)
}

func (h *TransactionHandler) applySingle(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, domain.Money) (*domain.Transaction, error)) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	amount, fields := req.parse()
	if fields != nil {
		RespondValidationError(w, fields)
		return
	}

	rec, err := op(r.Context(), accountID, amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transaction failed",
			"account_id", accountID, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(rec))
}

type transferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := uuid.Parse(r.FromAccountID); err != nil {
		errs = append(errs, FieldError{Field: "from_account_id", Message: "must be a UUID"})
	}
	if _, err := uuid.Parse(r.ToAccountID); err != nil {
		errs = append(errs, FieldError{Field: "to_account_id", Message: "must be a UUID"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if _, err := domain.ParseMoney(r.Amount); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal with at most two fractional digits"})
	}
	return errs
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	fromID := uuid.MustParse(req.FromAccountID)
	toID := uuid.MustParse(req.ToAccountID)
	amount, _ := domain.ParseMoney(req.Amount)

	rec, err := h.engine.Transfer(r.Context(), fromID, toID, amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer failed",
			"from_account_id", fromID, "to_account_id", toID, "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(rec))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	rec, err := h.engine.GetTransaction(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTransactionDTO(rec))
}

type historyDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Total        int              `json:"total"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.engine.ListAccountTransactions(r.Context(), accountID, limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions",
			"account_id", accountID, "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(entries))
	for i := range entries {
		dtos[i] = toTransactionDTO(&entries[i])
	}
	RespondSuccess(w, http.StatusOK, historyDTO{
		Transactions: dtos,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
