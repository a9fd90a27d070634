package wallets

import (
	"context"
	"net/http"

	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/mapping"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/respond"
)

// ReasonAdminCredit is recorded on manual credits.
const ReasonAdminCredit = "admin credit"

// Ledger is the part of the wallet ledger the handlers use.
type Ledger interface {
	Wallet(ctx context.Context, walletID string) (*models.Wallet, error)
	Transactions(ctx context.Context, walletID string) ([]models.Transaction, error)
	Credit(ctx context.Context, walletID string, amount int64, meta map[string]string) (*models.Transaction, error)
}

// TopUps opens gateway orders that credit a wallet once paid.
type TopUps interface {
	CreateTopUpOrder(ctx context.Context, userID string, amount int64) (*payment.Order, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Ledger Ledger
	TopUps TopUps
	KeyID  string
}

// NewWalletsHandler creates a new WalletsHandler. keyID is the public gateway
// key the browser checkout needs.
func NewWalletsHandler(ledger Ledger, topUps TopUps, keyID string) *WalletsHandler {
	return &WalletsHandler{Ledger: ledger, TopUps: topUps, KeyID: keyID}
}

func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("authentication required"))
		return "", false
	}
	return claims.UserID, true
}

// GetWallet returns the caller's wallet.
func (h *WalletsHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	wallet, err := h.Ledger.Wallet(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}

// ListTransactions returns the caller's transactions, newest first.
func (h *WalletsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	txs, err := h.Ledger.Transactions(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	apiTxs := mapping.ToApiTransactions(txs)
	for i, j := 0, len(apiTxs)-1; i < j; i, j = i+1, j-1 {
		apiTxs[i], apiTxs[j] = apiTxs[j], apiTxs[i]
	}
	respond.JSON(w, http.StatusOK, apiTxs)
}

// CreateTopUpOrder opens a gateway order for a wallet top-up.
func (h *WalletsHandler) CreateTopUpOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.TopUpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	order, err := h.TopUps.CreateTopUpOrder(r.Context(), userID, req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiPaymentOrder(order, h.KeyID))
}

// CreditWallet credits a retailer's wallet on behalf of an administrator.
func (h *WalletsHandler) CreditWallet(w http.ResponseWriter, r *http.Request, userId string) {
	adminID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.CreditRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.Ledger.Credit(r.Context(), userId, req.Amount, map[string]string{
		models.MetaReason: ReasonAdminCredit,
		models.MetaActor:  adminID,
		models.MetaNote:   req.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}
