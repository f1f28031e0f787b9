package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
	"github.com/camounitropico/banco-financiera/internal/logging"
)

type accountService interface {
	CreateAccount(ctx context.Context, ownerID uuid.UUID, kind domain.AccountKind, initialBalance domain.Money, taxExempt bool) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListOwnerAccounts(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	OwnerID        string `json:"owner_id"`
	Kind           string `json:"kind"`
	InitialBalance string `json:"initial_balance"`
	TaxExempt      bool   `json:"tax_exempt"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.OwnerID == "" {
		errs = append(errs, FieldError{Field: "owner_id", Message: "required"})
	} else if _, err := uuid.Parse(r.OwnerID); err != nil {
		errs = append(errs, FieldError{Field: "owner_id", Message: "must be a UUID"})
	}
	if !domain.AccountKind(r.Kind).IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "must be savings or current"})
	}
	if r.InitialBalance != "" {
		if _, err := domain.ParseMoney(r.InitialBalance); err != nil {
			errs = append(errs, FieldError{Field: "initial_balance", Message: "must be a decimal with at most two fractional digits"})
		}
	}
	return errs
}

type accountDTO struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Kind          string    `json:"kind"`
	AccountNumber string    `json:"account_number"`
	Balance       string    `json:"balance"`
	TaxExempt     bool      `json:"tax_exempt"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		Kind:          string(a.Kind),
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.String(),
		TaxExempt:     a.TaxExempt,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	ownerID := uuid.MustParse(req.OwnerID)
	balance := domain.Money{}
	if req.InitialBalance != "" {
		balance, _ = domain.ParseMoney(req.InitialBalance)
	}

	account, err := h.accounts.CreateAccount(r.Context(), ownerID, domain.AccountKind(req.Kind), balance, req.TaxExempt)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.PathValue("ownerID"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	accounts, err := h.accounts.ListOwnerAccounts(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	account, err := h.accounts.UpdateStatus(r.Context(), id, domain.AccountStatus(req.Status))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update account status", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete account", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func accountIDFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}
