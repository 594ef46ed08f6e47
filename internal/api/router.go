package api

import (
	"net/http"

	"github.com/nmoreno/walletly/internal/auth"
	"github.com/nmoreno/walletly/internal/metrics"
	"github.com/nmoreno/walletly/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Wallets      *WalletHandler
	Transactions *TransactionHandler
	Goals        *GoalHandler
}

// NewRouter wires all routes. Auth endpoints are public; everything
// else under /api requires a bearer token.
func NewRouter(h Handlers, jwtManager *auth.JWTManager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	authed := middleware.RequireAuth(jwtManager)
	protect := func(fn http.HandlerFunc) http.Handler {
		return authed(fn)
	}

	mux.Handle("POST /api/wallets", protect(h.Wallets.Create))
	mux.Handle("GET /api/wallets", protect(h.Wallets.List))
	mux.Handle("POST /api/wallets/{id}/members", protect(h.Wallets.AddMember))
	mux.Handle("GET /api/wallets/{id}/balances", protect(h.Wallets.Balances))
	mux.Handle("GET /api/wallets/{id}/settlements/suggest", protect(h.Wallets.SuggestSettlements))
	mux.Handle("POST /api/wallets/{id}/settlements", protect(h.Wallets.RecordSettlement))
	mux.Handle("GET /api/wallets/{id}/settlements", protect(h.Wallets.ListSettlements))

	mux.Handle("POST /api/transactions", protect(h.Transactions.Create))
	mux.Handle("GET /api/wallets/{id}/transactions", protect(h.Transactions.List))
	mux.Handle("GET /api/categories", protect(h.Transactions.ListCategories))

	mux.Handle("POST /api/goals", protect(h.Goals.Create))
	mux.Handle("GET /api/wallets/{id}/goals", protect(h.Goals.ListByWallet))
	mux.Handle("GET /api/goals/{id}/progress", protect(h.Goals.ListProgress))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.Logging(middleware.CORS(mux))
}
