package wallets_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/handlers/wallets"
	"github.com/chris/retailer-services/pkg/handlers/wallets/mocks"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func as(req *http.Request, userID string, role models.Role) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &account.Claims{UserID: userID, Role: role}))
}

func TestGetWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ledger := mocks.NewLedger(t)
		ledger.On("Wallet", mock.Anything, "user-1").Return(&models.Wallet{UserId: "user-1", Balance: 5000, Currency: "INR", Version: 3}, nil)

		h := wallets.NewWalletsHandler(ledger, mocks.NewTopUps(t), "rzp_test")
		rr := httptest.NewRecorder()
		h.GetWallet(rr, as(httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil), "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusOK, rr.Code)
		var wallet api.Wallet
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &wallet))
		assert.Equal(t, int64(5000), wallet.Balance)
	})

	t.Run("Not Found", func(t *testing.T) {
		ledger := mocks.NewLedger(t)
		ledger.On("Wallet", mock.Anything, "admin-1").Return(nil, apperr.NotFound("wallet not found"))

		h := wallets.NewWalletsHandler(ledger, mocks.NewTopUps(t), "rzp_test")
		rr := httptest.NewRecorder()
		h.GetWallet(rr, as(httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil), "admin-1", models.RoleAdmin))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListTransactions_NewestFirst(t *testing.T) {
	ledger := mocks.NewLedger(t)
	ledger.On("Transactions", mock.Anything, "user-1").Return([]models.Transaction{
		{WalletId: "user-1", Seq: 1, Direction: models.Credit, Amount: 1000},
		{WalletId: "user-1", Seq: 2, Direction: models.Debit, Amount: 400},
	}, nil)

	h := wallets.NewWalletsHandler(ledger, mocks.NewTopUps(t), "rzp_test")
	rr := httptest.NewRecorder()
	h.ListTransactions(rr, as(httptest.NewRequest(http.MethodGet, "/api/v1/wallet/transactions", nil), "user-1", models.RoleRetailer))

	require.Equal(t, http.StatusOK, rr.Code)
	var txs []api.Transaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, int64(2), txs[0].Seq)
	assert.Equal(t, "debit", txs[0].Type)
}

func TestCreateTopUpOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		topUps := mocks.NewTopUps(t)
		topUps.On("CreateTopUpOrder", mock.Anything, "user-1", int64(50000)).
			Return(&payment.Order{ID: "order_1", Amount: 50000, Currency: "INR", Receipt: "wallet_abc"}, nil)

		h := wallets.NewWalletsHandler(mocks.NewLedger(t), topUps, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/topup-orders", strings.NewReader(`{"amount":50000}`))
		rr := httptest.NewRecorder()
		h.CreateTopUpOrder(rr, as(req, "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var order api.PaymentOrder
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &order))
		assert.Equal(t, "order_1", order.OrderId)
		assert.Equal(t, "rzp_test", order.KeyId)
	})

	t.Run("Gateway Down", func(t *testing.T) {
		topUps := mocks.NewTopUps(t)
		topUps.On("CreateTopUpOrder", mock.Anything, "user-1", int64(50000)).Return(nil, apperr.Upstream("payment gateway unavailable", nil))

		h := wallets.NewWalletsHandler(mocks.NewLedger(t), topUps, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/topup-orders", strings.NewReader(`{"amount":50000}`))
		rr := httptest.NewRecorder()
		h.CreateTopUpOrder(rr, as(req, "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		h := wallets.NewWalletsHandler(mocks.NewLedger(t), mocks.NewTopUps(t), "rzp_test")
		rr := httptest.NewRecorder()
		h.CreateTopUpOrder(rr, httptest.NewRequest(http.MethodPost, "/api/v1/wallet/topup-orders", strings.NewReader(`{"amount":50000}`)))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestCreditWallet(t *testing.T) {
	ledger := mocks.NewLedger(t)
	ledger.On("Credit", mock.Anything, "user-1", int64(2500), map[string]string{
		models.MetaReason: wallets.ReasonAdminCredit,
		models.MetaActor:  "admin-1",
		models.MetaNote:   "cash deposit",
	}).Return(&models.Transaction{WalletId: "user-1", Seq: 4, Direction: models.Credit, Amount: 2500}, nil)

	h := wallets.NewWalletsHandler(ledger, mocks.NewTopUps(t), "rzp_test")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/wallets/user-1/credit", strings.NewReader(`{"amount":2500,"note":"cash deposit"}`))
	rr := httptest.NewRecorder()
	h.CreditWallet(rr, as(req, "admin-1", models.RoleAdmin), "user-1")

	assert.Equal(t, http.StatusCreated, rr.Code)
}
