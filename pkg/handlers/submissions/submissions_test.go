package submissions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/handlers/submissions"
	"github.com/chris/retailer-services/pkg/handlers/submissions/mocks"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func as(req *http.Request, userID string, role models.Role) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &account.Claims{UserID: userID, Role: role}))
}

func stored(status models.PaymentStatus) *models.Submission {
	return &models.Submission{
		Id:            "sub-1",
		RetailerId:    "user-1",
		OptionId:      "pan-new",
		Amount:        10700,
		Currency:      "INR",
		PaymentMethod: models.PayByWallet,
		PaymentStatus: status,
		Status:        models.StatusSubmitted,
		StatusHistory: []models.StatusEntry{{Status: models.StatusSubmitted, UpdatedBy: "user-1"}},
	}
}

const createBody = `{"optionId":"pan-new","data":{"full_name":"Asha"},"files":[{"field":"photo","name":"photo.jpg","url":"https://files.example.com/photo.jpg"}],"paymentMethod":"wallet"}`

func TestCreateSubmission(t *testing.T) {
	t.Run("Paid", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("Create", mock.Anything, submission.CreateInput{
			RetailerID:    "user-1",
			OptionID:      "pan-new",
			Data:          map[string]string{"full_name": "Asha"},
			Files:         []models.FileRef{{Field: "photo", Name: "photo.jpg", URL: "https://files.example.com/photo.jpg"}},
			PaymentMethod: models.PayByWallet,
		}).Return(&submission.Result{
			Submission:  stored(models.PaymentPaid),
			Transaction: &models.Transaction{WalletId: "user-1", Seq: 2, Direction: models.Debit, Amount: 10700},
		}, nil)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(createBody))
		rr := httptest.NewRecorder()
		h.CreateSubmission(rr, as(req, "user-1", models.RoleRetailer))

		require.Equal(t, http.StatusCreated, rr.Code)
		var res api.SubmissionResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, "paid", res.Submission.PaymentStatus)
		require.NotNil(t, res.Transaction)
		assert.Equal(t, int64(10700), res.Transaction.Amount)
	})

	t.Run("Stored But Unpaid", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("Create", mock.Anything, mock.Anything).Return(&submission.Result{
			Submission:    stored(models.PaymentFailed),
			PaymentFailed: true,
			Message:       submission.RemarkInsufficientFunds,
		}, nil)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(createBody))
		rr := httptest.NewRecorder()
		h.CreateSubmission(rr, as(req, "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusPaymentRequired, rr.Code)
		assert.Contains(t, rr.Body.String(), `"paymentFailed":true`)
		assert.Contains(t, rr.Body.String(), `"id":"sub-1"`)
	})

	t.Run("Inactive Option", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("Create", mock.Anything, mock.Anything).Return(nil, apperr.Validation("option is not available"))

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(createBody))
		rr := httptest.NewRecorder()
		h.CreateSubmission(rr, as(req, "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Bad File URL", func(t *testing.T) {
		h := submissions.NewSubmissionsHandler(mocks.NewWorkflow(t), "rzp_test")
		body := `{"optionId":"pan-new","files":[{"field":"photo","url":"not a url"}],"paymentMethod":"wallet"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.CreateSubmission(rr, as(req, "user-1", models.RoleRetailer))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRetryPayment(t *testing.T) {
	t.Run("Already Paid", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("RetryPayment", mock.Anything, "user-1", "sub-1", models.PayByWallet).Return(nil, apperr.ErrAlreadyPaid)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/retry-payment", strings.NewReader(`{"paymentMethod":"wallet"}`))
		rr := httptest.NewRecorder()
		h.RetryPayment(rr, as(req, "user-1", models.RoleRetailer), "sub-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "already_paid")
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("RetryPayment", mock.Anything, "user-1", "sub-1", models.PayByWallet).Return(nil, apperr.ErrInsufficientFunds)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/retry-payment", strings.NewReader(`{"paymentMethod":"wallet"}`))
		rr := httptest.NewRecorder()
		h.RetryPayment(rr, as(req, "user-1", models.RoleRetailer), "sub-1")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Online", func(t *testing.T) {
		sub := stored(models.PaymentPending)
		sub.PaymentMethod = models.PayOnline
		workflow := mocks.NewWorkflow(t)
		workflow.On("RetryPayment", mock.Anything, "user-1", "sub-1", models.PayOnline).Return(&submission.Result{
			Submission: sub,
			Order:      &payment.Order{ID: "order_9", Amount: 10700, Currency: "INR"},
		}, nil)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions/sub-1/retry-payment", strings.NewReader(`{"paymentMethod":"online"}`))
		rr := httptest.NewRecorder()
		h.RetryPayment(rr, as(req, "user-1", models.RoleRetailer), "sub-1")

		require.Equal(t, http.StatusOK, rr.Code)
		var res api.SubmissionResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		require.NotNil(t, res.Order)
		assert.Equal(t, "order_9", res.Order.OrderId)
		assert.Equal(t, "rzp_test", res.Order.KeyId)
	})
}

func TestGetSubmission_OtherRetailer(t *testing.T) {
	workflow := mocks.NewWorkflow(t)
	workflow.On("GetForRetailer", mock.Anything, "user-2", "sub-1").Return(nil, apperr.NotFound("submission not found"))

	h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
	rr := httptest.NewRecorder()
	h.GetSubmission(rr, as(httptest.NewRequest(http.MethodGet, "/api/v1/submissions/sub-1", nil), "user-2", models.RoleRetailer), "sub-1")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReUploadDocuments(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sub := stored(models.PaymentPaid)
		sub.Status = models.StatusDocumentReuploaded
		workflow := mocks.NewWorkflow(t)
		workflow.On("ReUpload", mock.Anything, "user-1", "sub-1", []models.FileRef{{Field: "photo", Name: "new.jpg", URL: "https://files.example.com/new.jpg"}}).
			Return(sub, nil)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		body := `{"files":[{"field":"photo","name":"new.jpg","url":"https://files.example.com/new.jpg"}]}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/submissions/sub-1/documents", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.ReUploadDocuments(rr, as(req, "user-1", models.RoleRetailer), "sub-1")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Document Re-uploaded")
	})

	t.Run("No Files", func(t *testing.T) {
		h := submissions.NewSubmissionsHandler(mocks.NewWorkflow(t), "rzp_test")
		req := httptest.NewRequest(http.MethodPut, "/api/v1/submissions/sub-1/documents", strings.NewReader(`{"files":[]}`))
		rr := httptest.NewRecorder()
		h.ReUploadDocuments(rr, as(req, "user-1", models.RoleRetailer), "sub-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("Invalid Transition", func(t *testing.T) {
		workflow := mocks.NewWorkflow(t)
		workflow.On("UpdateStatus", mock.Anything, "admin-1", "sub-1", models.StatusCompleted, "done").Return(nil, apperr.ErrInvalidTransition)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/submissions/sub-1/status", strings.NewReader(`{"status":"Completed","remarks":"done"}`))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, as(req, "admin-1", models.RoleAdmin), "sub-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_transition")
	})

	t.Run("Success", func(t *testing.T) {
		sub := stored(models.PaymentPaid)
		sub.Status = models.StatusReviewing
		workflow := mocks.NewWorkflow(t)
		workflow.On("UpdateStatus", mock.Anything, "admin-1", "sub-1", models.StatusReviewing, "").Return(sub, nil)

		h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/submissions/sub-1/status", strings.NewReader(`{"status":"Reviewing"}`))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, as(req, "admin-1", models.RoleAdmin), "sub-1")

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAdminListSubmissions(t *testing.T) {
	workflow := mocks.NewWorkflow(t)
	workflow.On("List", mock.Anything).Return([]models.Submission{*stored(models.PaymentPaid)}, nil)

	h := submissions.NewSubmissionsHandler(workflow, "rzp_test")
	rr := httptest.NewRecorder()
	h.AdminListSubmissions(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var subs []api.Submission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &subs))
	assert.Len(t, subs, 1)
}
