package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/middleware"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/service"
)

// TransactionHandler exposes transaction creation and listing.
type TransactionHandler struct {
	svc *service.TransactionService
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type splitRequest struct {
	OwedByUserID string          `json:"owedByUserId"`
	Amount       decimal.Decimal `json:"amount"`
}

type transactionResponse struct {
	ID          string                 `json:"id"`
	WalletID    string                 `json:"walletId"`
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	PaidBy      string                 `json:"paidByUserId"`
	CreatedBy   string                 `json:"createdById"`
	CategoryID  string                 `json:"categoryId,omitempty"`
	Description string                 `json:"description,omitempty"`
	Date        int64                  `json:"date"`
	CreatedAt   int64                  `json:"createdAt"`
	Splits      []splitResponse        `json:"splits,omitempty"`
}

type splitResponse struct {
	ID           string          `json:"id"`
	OwedByUserID string          `json:"owedByUserId"`
	Amount       decimal.Decimal `json:"amount"`
	Settled      bool            `json:"settled"`
}

func toTransactionResponse(t *models.Transaction) transactionResponse {
	resp := transactionResponse{
		ID: t.ID, WalletID: t.WalletID, Type: t.Type, Amount: t.Amount,
		PaidBy: t.PaidByID, CreatedBy: t.CreatedByID, CategoryID: t.CategoryID,
		Description: t.Description, Date: t.Date, CreatedAt: t.CreatedAt,
	}
	for _, sp := range t.Splits {
		resp.Splits = append(resp.Splits, splitResponse{
			ID: sp.ID, OwedByUserID: sp.OwedByID, Amount: sp.Amount, Settled: sp.Settled,
		})
	}
	return resp
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletID           string                 `json:"walletId"`
		Type               models.TransactionType `json:"type"`
		Amount             decimal.Decimal        `json:"amount"`
		PaidByUserID       string                 `json:"paidByUserId"`
		CategoryID         string                 `json:"categoryId"`
		Description        string                 `json:"description"`
		Date               int64                  `json:"date"`
		Splits             []splitRequest         `json:"splits"`
		ContributeToGoalID string                 `json:"contributeToGoalId"`
	}
	if err := decode(r, &req); err != nil {
		badJSON(w)
		return
	}

	in := service.CreateTransactionInput{
		WalletID:           req.WalletID,
		Type:               req.Type,
		Amount:             req.Amount,
		PaidByUserID:       req.PaidByUserID,
		CategoryID:         req.CategoryID,
		Description:        req.Description,
		Date:               req.Date,
		ContributeToGoalID: req.ContributeToGoalID,
	}
	for _, sp := range req.Splits {
		in.Splits = append(in.Splits, service.SplitInput{OwedByUserID: sp.OwedByUserID, Amount: sp.Amount})
	}

	txn, err := h.svc.CreateTransaction(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

// List handles GET /api/wallets/{id}/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txns, err := h.svc.ListTransactions(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transactionResponse, len(txns))
	for i, t := range txns {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        models.CategoryType `json:"type"`
	Description string              `json:"description,omitempty"`
	WalletID    string              `json:"walletId,omitempty"`
	IsSystem    bool                `json:"isSystem"`
}

// ListCategories handles GET /api/categories.
func (h *TransactionHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = categoryResponse{
			ID: c.ID, Name: c.Name, Type: c.Type,
			Description: c.Description, WalletID: c.WalletID, IsSystem: c.IsSystem,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
