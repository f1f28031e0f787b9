package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

type stubEngine struct {
	record *domain.Transaction
	err    error
}

func (s *stubEngine) Deposit(_ context.Context, _ uuid.UUID, _ domain.Money) (*domain.Transaction, error) {
	return s.record, s.err
}

func (s *stubEngine) Withdraw(_ context.Context, _ uuid.UUID, _ domain.Money) (*domain.Transaction, error) {
	return s.record, s.err
}

func (s *stubEngine) Transfer(_ context.Context, _, _ uuid.UUID, _ domain.Money) (*domain.Transaction, error) {
	return s.record, s.err
}

func (s *stubEngine) GetTransaction(_ context.Context, _ uuid.UUID) (*domain.Transaction, error) {
	return s.record, s.err
}

func (s *stubEngine) ListAccountTransactions(_ context.Context, _ uuid.UUID, _, _ int) ([]domain.Transaction, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []domain.Transaction{*s.record}, 1, nil
}

func newMux(engine transactionEngine) *http.ServeMux {
	h := NewTransactionHandler(engine)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/accounts/{id}/deposits", h.Deposit)
	mux.HandleFunc("POST /api/v1/accounts/{id}/withdrawals", h.Withdraw)
	mux.HandleFunc("POST /api/v1/transfers", h.Transfer)
	mux.HandleFunc("GET /api/v1/transactions/{id}", h.Get)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transactions", h.History)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return rr, resp
}

func sampleRecord(accountID uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:         uuid.New(),
		Type:       domain.TransactionTypeDeposit,
		Amount:     domain.MustMoney("25.00"),
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
	}
}

func TestDepositHandler(t *testing.T) {
	accountID := uuid.New()
	rec := sampleRecord(accountID)
	mux := newMux(&stubEngine{record: rec})

	rr, resp := doJSON(t, mux, http.MethodPost,
		"/api/v1/accounts/"+accountID.String()+"/deposits",
		map[string]string{"amount": "25.00"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, rec.ID.String(), data["id"])
	assert.Equal(t, "deposit", data["type"])
	assert.Equal(t, "25.00", data["amount"])
}

func TestDepositHandlerBadAmount(t *testing.T) {
	mux := newMux(&stubEngine{})

	tests := []struct {
		name   string
		amount string
	}{
		{name: "missing", amount: ""},
		{name: "non numeric", amount: "ten"},
		{name: "too precise", amount: "1.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := doJSON(t, mux, http.MethodPost,
				"/api/v1/accounts/"+uuid.NewString()+"/deposits",
				map[string]string{"amount": tt.amount})

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		})
	}
}

func TestDepositHandlerBadAccountID(t *testing.T) {
	mux := newMux(&stubEngine{})

	rr, resp := doJSON(t, mux, http.MethodPost,
		"/api/v1/accounts/not-a-uuid/deposits",
		map[string]string{"amount": "1.00"})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, resp.Error)
}

func TestWithdrawHandlerDomainErrors(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name: "insufficient funds",
			err: fmt.Errorf("Withdraw: %w", &domain.InsufficientFundsError{
				AccountID: accountID,
				Available: domain.MustMoney("150.00"),
				Requested: domain.MustMoney("200.00"),
			}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_FUNDS",
		},
		{
			name:       "inactive account",
			err:        fmt.Errorf("Withdraw: %w", &domain.AccountInactiveError{AccountID: accountID, Status: domain.AccountStatusClosed}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "ACCOUNT_INACTIVE",
		},
		{
			name:       "unknown account",
			err:        fmt.Errorf("Withdraw: %w", &domain.AccountNotFoundError{AccountID: accountID}),
			wantStatus: http.StatusNotFound,
			wantCode:   "ACCOUNT_NOT_FOUND",
		},
		{
			name:       "contention",
			err:        fmt.Errorf("Withdraw: %w", &domain.ContentionError{AccountID: accountID}),
			wantStatus: http.StatusConflict,
			wantCode:   "CONTENTION",
		},
		{
			name:       "invalid amount",
			err:        fmt.Errorf("Withdraw: %w", domain.ErrInvalidAmount),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "unclassified",
			err:        fmt.Errorf("Withdraw: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(&stubEngine{err: tt.err})

			rr, resp := doJSON(t, mux, http.MethodPost,
				"/api/v1/accounts/"+accountID.String()+"/withdrawals",
				map[string]string{"amount": "200.00"})

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestWithdrawHandlerInsufficientFundsDetails(t *testing.T) {
	accountID := uuid.New()
	mux := newMux(&stubEngine{err: &domain.InsufficientFundsError{
		AccountID: accountID,
		Available: domain.MustMoney("150.00"),
		Requested: domain.MustMoney("200.00"),
	}})

	_, resp := doJSON(t, mux, http.MethodPost,
		"/api/v1/accounts/"+accountID.String()+"/withdrawals",
		map[string]string{"amount": "200.00"})

	require.NotNil(t, resp.Error)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, "150.00", details["available"])
	assert.Equal(t, "200.00", details["requested"])
}

func TestTransferHandler(t *testing.T) {
	from, to := uuid.New(), uuid.New()
	rec := &domain.Transaction{
		ID:         uuid.New(),
		Type:       domain.TransactionTypeTransfer,
		Amount:     domain.MustMoney("75.25"),
		AccountID:  from,
		OccurredAt: time.Now().UTC(),
	}
	mux := newMux(&stubEngine{record: rec})

	rr, resp := doJSON(t, mux, http.MethodPost, "/api/v1/transfers", map[string]string{
		"from_account_id": from.String(),
		"to_account_id":   to.String(),
		"amount":          "75.25",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "transfer", data["type"])
	assert.Equal(t, from.String(), data["account_id"])
}

func TestTransferHandlerValidation(t *testing.T) {
	mux := newMux(&stubEngine{})

	rr, resp := doJSON(t, mux, http.MethodPost, "/api/v1/transfers", map[string]string{
		"from_account_id": "nope",
		"to_account_id":   uuid.NewString(),
		"amount":          "",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)

	// one field error per invalid field
	fields := resp.Error.Details.([]any)
	assert.Len(t, fields, 2)
}

func TestTransferHandlerSameAccount(t *testing.T) {
	accountID := uuid.New()
	mux := newMux(&stubEngine{err: fmt.Errorf("Transfer: %w", &domain.SameAccountTransferError{AccountID: accountID})})

	rr, resp := doJSON(t, mux, http.MethodPost, "/api/v1/transfers", map[string]string{
		"from_account_id": accountID.String(),
		"to_account_id":   accountID.String(),
		"amount":          "10.00",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SAME_ACCOUNT_TRANSFER", resp.Error.Code)
}

func TestGetTransactionHandlerNotFound(t *testing.T) {
	mux := newMux(&stubEngine{err: fmt.Errorf("GetTransaction: %w", domain.ErrNotFound)})

	rr, resp := doJSON(t, mux, http.MethodGet, "/api/v1/transactions/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}

func TestHistoryHandler(t *testing.T) {
	accountID := uuid.New()
	mux := newMux(&stubEngine{record: sampleRecord(accountID)})

	rr, resp := doJSON(t, mux, http.MethodGet,
		"/api/v1/accounts/"+accountID.String()+"/transactions?limit=500&offset=-3", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	data := resp.Data.(map[string]any)
	// out-of-range paging falls back to defaults
	assert.Equal(t, float64(20), data["limit"])
	assert.Equal(t, float64(0), data["offset"])
	assert.Equal(t, float64(1), data["total"])
}
