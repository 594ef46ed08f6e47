package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/middleware"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/service"
)

// WalletHandler exposes wallet CRUD, balances, and settlements.
type WalletHandler struct {
	wallets     *service.WalletService
	settlements *service.SettlementService
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(wallets *service.WalletService, settlements *service.SettlementService) *WalletHandler {
	return &WalletHandler{wallets: wallets, settlements: settlements}
}

type memberResponse struct {
	UserID string            `json:"userId"`
	Role   models.WalletRole `json:"role"`
}

type walletResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      models.WalletType `json:"type"`
	Currency  string            `json:"currency"`
	CreatedBy string            `json:"createdById"`
	CreatedAt int64             `json:"createdAt"`
	Members   []memberResponse  `json:"members,omitempty"`
}

func toWalletResponse(w *models.Wallet) walletResponse {
	resp := walletResponse{
		ID: w.ID, Name: w.Name, Type: w.Type, Currency: w.Currency,
		CreatedBy: w.CreatedByID, CreatedAt: w.CreatedAt,
	}
	for _, m := range w.Members {
		resp.Members = append(resp.Members, memberResponse{UserID: m.UserID, Role: m.Role})
	}
	return resp
}

// Create handles POST /api/wallets.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string            `json:"name"`
		Type     models.WalletType `json:"type"`
		Currency string            `json:"currency"`
	}
	if err := decode(r, &req); err != nil {
		badJSON(w)
		return
	}

	wallet, err := h.wallets.CreateWallet(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Type, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWalletResponse(wallet))
}

// List handles GET /api/wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallets.ListWallets(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]walletResponse, len(wallets))
	for i, wallet := range wallets {
		out[i] = toWalletResponse(wallet)
	}
	writeJSON(w, http.StatusOK, out)
}

// AddMember handles POST /api/wallets/{id}/members.
func (h *WalletHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		badJSON(w)
		return
	}

	member, err := h.wallets.AddMember(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{UserID: member.UserID, Role: member.Role})
}

type balanceResponse struct {
	UserID string          `json:"userId"`
	Net    decimal.Decimal `json:"net"`
}

// Balances handles GET /api/wallets/{id}/balances.
func (h *WalletHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.wallets.ComputeBalances(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]balanceResponse, len(balances))
	for i, b := range balances {
		out[i] = balanceResponse{UserID: b.UserID, Net: b.Net}
	}
	writeJSON(w, http.StatusOK, out)
}

type suggestionResponse struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

// SuggestSettlements handles GET /api/wallets/{id}/settlements/suggest.
func (h *WalletHandler) SuggestSettlements(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.wallets.SuggestSettlements(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]suggestionResponse, len(suggestions))
	for i, s := range suggestions {
		out[i] = suggestionResponse{FromUserID: s.FromUserID, ToUserID: s.ToUserID, Amount: s.Amount}
	}
	writeJSON(w, http.StatusOK, map[string][]suggestionResponse{"settlements": out})
}

type settlementResponse struct {
	ID         string          `json:"id"`
	WalletID   string          `json:"walletId"`
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedBy  string          `json:"createdById"`
	Date       int64           `json:"date"`
	CreatedAt  int64           `json:"createdAt"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID: s.ID, WalletID: s.WalletID, FromUserID: s.FromUserID, ToUserID: s.ToUserID,
		Amount: s.Amount, CreatedBy: s.CreatedByID, Date: s.Date, CreatedAt: s.CreatedAt,
	}
}

// RecordSettlement handles POST /api/wallets/{id}/settlements.
func (h *WalletHandler) RecordSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromUserID string          `json:"fromUserId"`
		ToUserID   string          `json:"toUserId"`
		Amount     decimal.Decimal `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		badJSON(w)
		return
	}

	settlement, err := h.settlements.RecordSettlement(
		r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"),
		req.FromUserID, req.ToUserID, req.Amount,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

// ListSettlements handles GET /api/wallets/{id}/settlements.
func (h *WalletHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.settlements.ListSettlements(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]settlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = toSettlementResponse(s)
	}
	writeJSON(w, http.StatusOK, out)
}
