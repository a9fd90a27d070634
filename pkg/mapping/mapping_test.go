package mapping

import (
	"testing"
	"time"

	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/submission"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiTransaction(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("UUID Id", func(t *testing.T) {
		id := uuid.New()
		got := ToApiTransaction(&models.Transaction{
			Id:        id.String(),
			Seq:       3,
			Direction: models.Debit,
			Amount:    2500,
			Meta:      map[string]string{models.MetaReason: "submission payment"},
			CreatedAt: createdAt,
		})

		assert.Equal(t, id, uuid.UUID(got.Id))
		assert.Equal(t, "debit", got.Type)
		assert.Equal(t, "submission payment", got.Reason)
		assert.Equal(t, int64(3), got.Seq)
	})

	t.Run("Legacy Id", func(t *testing.T) {
		got := ToApiTransaction(&models.Transaction{Id: "txn-1", Direction: models.Credit})
		assert.Equal(t, uuid.Nil, uuid.UUID(got.Id))
		assert.Empty(t, got.Reason)
	})
}

func TestToApiUser(t *testing.T) {
	got := ToApiUser(&models.User{
		UserId:       "user-1",
		Mobile:       "9876543210",
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleRetailer,
		IsActive:     true,
	})

	assert.Equal(t, "user-1", got.Id)
	assert.Equal(t, "retailer", got.Role)
	assert.Equal(t, "asha@example.com", string(got.Email))
	assert.True(t, got.IsActive)
	assert.False(t, got.Verified)

	users := ToApiUsers([]models.User{{UserId: "a"}, {UserId: "b", Verified: true}})
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[1].Id)
	assert.True(t, users[1].Verified)
}

func TestToApiSubmissionResult(t *testing.T) {
	sub := &models.Submission{
		Id:            "sub-1",
		OptionId:      "pan-new",
		Amount:        10700,
		PaymentMethod: models.PayOnline,
		PaymentStatus: models.PaymentPending,
		Status:        models.StatusSubmitted,
		Files:         []models.FileRef{{Field: "photo", Name: "me.jpg", URL: "https://files.local/me.jpg"}},
		StatusHistory: []models.StatusEntry{{Status: models.StatusSubmitted, UpdatedBy: "user-1"}},
	}

	t.Run("Online", func(t *testing.T) {
		got := ToApiSubmissionResult(&submission.Result{
			Submission: sub,
			Order:      &payment.Order{ID: "order_1", Amount: 10700, Currency: "INR", Receipt: "sub_sub-1"},
		}, "rzp_test_key")

		require.NotNil(t, got.Order)
		assert.Equal(t, "rzp_test_key", got.Order.KeyId)
		assert.Nil(t, got.Transaction)
		assert.Equal(t, "Submitted", got.Submission.Status)
		require.Len(t, got.Submission.Files, 1)
		assert.Equal(t, "https://files.local/me.jpg", got.Submission.Files[0].Url)
		assert.Empty(t, got.Submission.ReUploadedFiles)
	})

	t.Run("Wallet", func(t *testing.T) {
		got := ToApiSubmissionResult(&submission.Result{
			Submission:  sub,
			Transaction: &models.Transaction{Id: uuid.NewString(), Direction: models.Debit, Amount: 10700},
		}, "rzp_test_key")

		assert.Nil(t, got.Order)
		require.NotNil(t, got.Transaction)
		assert.Equal(t, int64(10700), got.Transaction.Amount)
	})
}

func TestToDomainFiles(t *testing.T) {
	files := ToDomainFiles(toApiFiles([]models.FileRef{{Field: "proof", Name: "bill.pdf", URL: "https://files.local/bill.pdf"}}))
	assert.Equal(t, []models.FileRef{{Field: "proof", Name: "bill.pdf", URL: "https://files.local/bill.pdf"}}, files)
}

func TestToApiPaymentVerified(t *testing.T) {
	got := ToApiPaymentVerified(&checkout.Confirmation{
		Order:     &models.PaymentOrder{OrderId: "order_1", Kind: models.OrderForSubmission, Status: models.OrderPaid, SubmissionId: "sub-1"},
		Duplicate: true,
	})

	assert.Equal(t, "submission", got.Kind)
	assert.Equal(t, "paid", got.Status)
	assert.Equal(t, "sub-1", got.SubmissionId)
	assert.True(t, got.Duplicate)
}
