package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nmoreno/walletly/internal/middleware"
	"github.com/nmoreno/walletly/internal/models"
	"github.com/nmoreno/walletly/internal/service"
)

// GoalHandler exposes savings goal creation and progress queries.
type GoalHandler struct {
	svc *service.GoalService
}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

type goalResponse struct {
	ID            string            `json:"id"`
	Scope         models.GoalScope  `json:"scope"`
	UserID        string            `json:"userId,omitempty"`
	WalletID      string            `json:"walletId,omitempty"`
	Name          string            `json:"name"`
	TargetAmount  decimal.Decimal   `json:"targetAmount"`
	CurrentAmount decimal.Decimal   `json:"currentAmount"`
	Deadline      int64             `json:"deadline,omitempty"`
	Status        models.GoalStatus `json:"status"`
	CreatedAt     int64             `json:"createdAt"`
}

func toGoalResponse(g *models.Goal) goalResponse {
	return goalResponse{
		ID: g.ID, Scope: g.Scope, UserID: g.UserID, WalletID: g.WalletID,
		Name: g.Name, TargetAmount: g.TargetAmount, CurrentAmount: g.CurrentAmount,
		Deadline: g.Deadline, Status: g.Status, CreatedAt: g.CreatedAt,
	}
}

// Create handles POST /api/goals.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletID     string          `json:"walletId"`
		Name         string          `json:"name"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
		Deadline     int64           `json:"deadline"`
	}
	if err := decode(r, &req); err != nil {
		badJSON(w)
		return
	}

	goal, err := h.svc.CreateGoal(r.Context(), middleware.GetUserID(r.Context()), req.WalletID, req.Name, req.TargetAmount, req.Deadline)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

// ListByWallet handles GET /api/wallets/{id}/goals.
func (h *GoalHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.ListWalletGoals(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	writeJSON(w, http.StatusOK, out)
}

type progressResponse struct {
	ID          string          `json:"id"`
	GoalID      string          `json:"goalId"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	CreatedByID string          `json:"createdById"`
	Date        int64           `json:"date"`
}

// ListProgress handles GET /api/goals/{id}/progress.
func (h *GoalHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListProgress(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]progressResponse, len(entries))
	for i, p := range entries {
		out[i] = progressResponse{
			ID: p.ID, GoalID: p.GoalID, Amount: p.Amount,
			Note: p.Note, CreatedByID: p.CreatedByID, Date: p.Date,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
