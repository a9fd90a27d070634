package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/ledger"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/payment/mocks"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/chris/retailer-services/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	ledger   *ledger.Ledger
	gateway  *mocks.Gateway
	workflow *Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	ids := 0
	nextID := func() string {
		ids++
		return fmt.Sprintf("sub-%d", ids)
	}

	store := memory.New(memory.WithClock(tick))
	l := ledger.New(store, ledger.WithClock(tick))
	gateway := mocks.NewGateway(t)
	w := New(store, store, l, gateway, WithClock(tick), WithIDGenerator(nextID))

	ctx := context.Background()
	require.NoError(t, store.PutOption(ctx, &models.Option{
		OptionId:     "pan-new",
		ServiceId:    "pan",
		SubServiceId: "pan-individual",
		Name:         "New PAN card",
		Price:        10700,
		IsActive:     true,
		FormFields: []models.FormField{
			{Name: "full_name", Label: "Full name", Type: "text", Required: true},
			{Name: "photo", Label: "Photograph", Type: "file", Required: true},
			{Name: "note", Label: "Note", Type: "text"},
		},
	}))
	require.NoError(t, store.PutOption(ctx, &models.Option{OptionId: "enquiry", ServiceId: "pan", Name: "Status enquiry", IsActive: true}))
	require.NoError(t, store.PutOption(ctx, &models.Option{OptionId: "retired", ServiceId: "pan", Name: "Old form", Price: 500}))

	return &fixture{store: store, ledger: l, gateway: gateway, workflow: w}
}

func (f *fixture) fund(t *testing.T, retailerID string, amount int64) {
	t.Helper()
	_, err := f.ledger.OpenWallet(context.Background(), retailerID)
	require.NoError(t, err)
	if amount > 0 {
		_, err = f.ledger.Credit(context.Background(), retailerID, amount, nil)
		require.NoError(t, err)
	}
}

func panApplication(method models.PaymentMethod) CreateInput {
	return CreateInput{
		RetailerID:    "retailer-1",
		OptionID:      "pan-new",
		Data:          map[string]string{"full_name": "Asha Verma"},
		Files:         []models.FileRef{{Field: "photo", Name: "photo.jpg", URL: "https://files.example.com/photo.jpg"}},
		PaymentMethod: method,
	}
}

func TestCreate_Wallet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 20000)

		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)
		assert.False(t, res.PaymentFailed)
		require.NotNil(t, res.Transaction)
		assert.Equal(t, int64(10700), res.Transaction.Amount)
		assert.Equal(t, "sub-1", res.Transaction.Meta[models.MetaSubmissionID])

		sub, err := f.workflow.Get(ctx, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPaid, sub.PaymentStatus)
		assert.Equal(t, models.StatusSubmitted, sub.Status)
		assert.Equal(t, int64(10700), sub.Amount)
		require.Len(t, sub.StatusHistory, 1)
		assert.Equal(t, RemarkSubmitted, sub.StatusHistory[0].Remarks)

		wallet, err := f.ledger.Wallet(ctx, "retailer-1")
		require.NoError(t, err)
		assert.Equal(t, int64(9300), wallet.Balance)
	})

	t.Run("Empty Wallet", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 0)

		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)
		assert.True(t, res.PaymentFailed)
		assert.Nil(t, res.Transaction)
		assert.NotEmpty(t, res.Message)

		sub, err := f.workflow.GetForRetailer(ctx, "retailer-1", res.Submission.Id)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, sub.PaymentStatus)
		require.Len(t, sub.StatusHistory, 1)
		assert.Equal(t, RemarkInsufficientFunds, sub.StatusHistory[0].Remarks)

		txs, err := f.ledger.Transactions(ctx, "retailer-1")
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("No Wallet", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)
		assert.True(t, res.PaymentFailed)
		assert.Equal(t, RemarkNoWallet, res.Submission.StatusHistory[0].Remarks)
	})
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		modify func(*CreateInput)
		kind   apperr.Kind
	}{
		{"Unknown Option", func(in *CreateInput) { in.OptionID = "missing" }, apperr.KindNotFound},
		{"Inactive Option", func(in *CreateInput) { in.OptionID = "retired" }, apperr.KindValidation},
		{"Missing Field", func(in *CreateInput) { in.Data = map[string]string{} }, apperr.KindValidation},
		{"Markup Only Field", func(in *CreateInput) { in.Data["full_name"] = "<script></script>" }, apperr.KindValidation},
		{"Missing File", func(in *CreateInput) { in.Files = nil }, apperr.KindValidation},
		{"Bad Method", func(in *CreateInput) { in.PaymentMethod = "cash" }, apperr.KindValidation},
		{"No Retailer", func(in *CreateInput) { in.RetailerID = "" }, apperr.KindUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := panApplication(models.PayByWallet)
			tc.modify(&in)
			_, err := f.workflow.Create(ctx, in)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	subs, err := f.workflow.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCreate_SanitizesFormData(t *testing.T) {
	f := newFixture(t)
	f.fund(t, "retailer-1", 20000)

	in := panApplication(models.PayByWallet)
	in.Data["full_name"] = "<b>Asha</b> Verma"
	in.Data["note"] = `<a href="javascript:alert(1)">urgent</a>`

	res, err := f.workflow.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", res.Submission.Data["full_name"])
	assert.Equal(t, "urgent", res.Submission.Data["note"])
}

func TestCreate_FreeOption(t *testing.T) {
	f := newFixture(t)

	res, err := f.workflow.Create(context.Background(), CreateInput{
		RetailerID:    "retailer-1",
		OptionID:      "enquiry",
		PaymentMethod: models.PayByWallet,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, res.Submission.PaymentStatus)
	assert.Nil(t, res.Transaction)
}

func TestCreate_Online(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("CreateOrder", mock.Anything, int64(10700), "INR", "sub_sub1").
			Return(&payment.Order{ID: "order_A1", Amount: 10700, Currency: "INR", Status: payment.OrderStatusCreated}, nil).Once()

		res, err := f.workflow.Create(ctx, panApplication(models.PayOnline))
		require.NoError(t, err)
		require.NotNil(t, res.Order)
		assert.Equal(t, "order_A1", res.Order.ID)
		assert.Equal(t, models.PaymentPending, res.Submission.PaymentStatus)
		assert.Equal(t, "order_A1", res.Submission.OrderId)

		order, err := f.store.GetOrder(ctx, "order_A1")
		require.NoError(t, err)
		assert.Equal(t, models.OrderForSubmission, order.Kind)
		assert.Equal(t, "sub-1", order.SubmissionId)
		assert.Equal(t, models.OrderCreated, order.Status)
	})

	t.Run("Gateway Error", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("CreateOrder", mock.Anything, int64(10700), "INR", mock.Anything).
			Return(nil, errors.New("connection reset")).Once()

		res, err := f.workflow.Create(ctx, panApplication(models.PayOnline))
		require.NoError(t, err)
		assert.True(t, res.PaymentFailed)

		sub, err := f.workflow.Get(ctx, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, sub.PaymentStatus)
		assert.Equal(t, RemarkOrderFailed, sub.StatusHistory[0].Remarks)
	})
}

func TestRetryPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Already Paid", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 20000)
		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)

		_, err = f.workflow.RetryPayment(ctx, "retailer-1", res.Submission.Id, models.PayByWallet)
		assert.ErrorIs(t, err, apperr.ErrAlreadyPaid)

		txs, err := f.ledger.Transactions(ctx, "retailer-1")
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("Wallet After Top Up", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 0)
		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)
		require.True(t, res.PaymentFailed)

		_, err = f.ledger.Credit(ctx, "retailer-1", 15000, nil)
		require.NoError(t, err)

		retry, err := f.workflow.RetryPayment(ctx, "retailer-1", res.Submission.Id, models.PayByWallet)
		require.NoError(t, err)
		require.NotNil(t, retry.Transaction)
		assert.Equal(t, "service purchase retry", retry.Transaction.Meta[models.MetaReason])
		assert.Equal(t, models.PaymentPaid, retry.Submission.PaymentStatus)
		require.Len(t, retry.Submission.StatusHistory, 2)
		assert.Equal(t, models.PaymentPaid, retry.Submission.StatusHistory[1].PaymentStatus)

		wallet, err := f.ledger.Wallet(ctx, "retailer-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4300), wallet.Balance)
	})

	t.Run("Still Insufficient", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 100)
		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)

		_, err = f.workflow.RetryPayment(ctx, "retailer-1", res.Submission.Id, models.PayByWallet)
		assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)

		sub, err := f.workflow.Get(ctx, res.Submission.Id)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, sub.PaymentStatus)
		require.Len(t, sub.StatusHistory, 2)
		assert.Equal(t, RemarkRetryFailed, sub.StatusHistory[1].Remarks)
	})

	t.Run("Online Creates New Order", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 0)
		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)

		f.gateway.On("CreateOrder", mock.Anything, int64(10700), "INR", "retry_sub1").
			Return(&payment.Order{ID: "order_B2", Amount: 10700, Currency: "INR"}, nil).Once()

		retry, err := f.workflow.RetryPayment(ctx, "retailer-1", res.Submission.Id, models.PayOnline)
		require.NoError(t, err)
		assert.Equal(t, "order_B2", retry.Order.ID)
		assert.Equal(t, models.PaymentPending, retry.Submission.PaymentStatus)
		assert.Equal(t, models.PayOnline, retry.Submission.PaymentMethod)

		order, err := f.store.GetOrder(ctx, "order_B2")
		require.NoError(t, err)
		assert.Equal(t, res.Submission.Id, order.SubmissionId)
	})

	t.Run("Other Retailer", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "retailer-1", 0)
		res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)

		_, err = f.workflow.RetryPayment(ctx, "retailer-2", res.Submission.Id, models.PayByWallet)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestUpdateStatus_HistoryOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, "retailer-1", 20000)
	res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
	require.NoError(t, err)
	id := res.Submission.Id

	_, err = f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusReviewing, "checking documents")
	require.NoError(t, err)
	_, err = f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusDocumentRequired, "<i>photo</i> is blurred")
	require.NoError(t, err)
	_, err = f.workflow.ReUpload(ctx, "retailer-1", id, []models.FileRef{{Field: "photo", Name: "photo2.jpg", URL: "https://files.example.com/photo2.jpg"}})
	require.NoError(t, err)
	_, err = f.workflow.UpdateStatus(ctx, "admin-2", id, models.StatusReviewing, "")
	require.NoError(t, err)
	sub, err := f.workflow.UpdateStatus(ctx, "admin-2", id, models.StatusCompleted, "PAN issued")
	require.NoError(t, err)

	want := []models.ReviewStatus{
		models.StatusSubmitted,
		models.StatusReviewing,
		models.StatusDocumentRequired,
		models.StatusDocumentReuploaded,
		models.StatusReviewing,
		models.StatusCompleted,
	}
	require.Len(t, sub.StatusHistory, len(want))
	for i, status := range want {
		assert.Equal(t, status, sub.StatusHistory[i].Status)
		if i > 0 {
			assert.True(t, sub.StatusHistory[i].UpdatedAt.After(sub.StatusHistory[i-1].UpdatedAt))
		}
	}
	assert.Equal(t, "photo is blurred", sub.StatusHistory[2].Remarks)
	assert.Equal(t, "retailer-1", sub.StatusHistory[3].UpdatedBy)
	assert.Equal(t, "PAN issued", sub.AdminRemarks)
	assert.Len(t, sub.Files, 1)
	assert.Len(t, sub.ReUploadedFiles, 1)

	_, err = f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusReviewing, "reopen")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = f.workflow.ReUpload(ctx, "retailer-1", id, sub.ReUploadedFiles)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestUpdateStatus_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, "retailer-1", 20000)
	res, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
	require.NoError(t, err)
	id := res.Submission.Id

	t.Run("Skips Review", func(t *testing.T) {
		_, err := f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusCompleted, "")
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("Re-upload Is Retailer Only", func(t *testing.T) {
		_, err := f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusDocumentReuploaded, "")
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("Unknown Status", func(t *testing.T) {
		_, err := f.workflow.UpdateStatus(ctx, "admin-1", id, "Archived", "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("Unknown Submission", func(t *testing.T) {
		_, err := f.workflow.UpdateStatus(ctx, "admin-1", "sub-404", models.StatusPending, "")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("Remarks Only", func(t *testing.T) {
		sub, err := f.workflow.UpdateStatus(ctx, "admin-1", id, models.StatusSubmitted, "called the retailer")
		require.NoError(t, err)
		assert.Equal(t, models.StatusSubmitted, sub.Status)
		assert.Equal(t, "called the retailer", sub.AdminRemarks)
	})

	t.Run("Empty Re-upload", func(t *testing.T) {
		_, err := f.workflow.ReUpload(ctx, "retailer-1", id, nil)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.ReviewStatus
		want     bool
	}{
		{models.StatusSubmitted, models.StatusPending, true},
		{models.StatusSubmitted, models.StatusCompleted, false},
		{models.StatusPending, models.StatusReviewing, true},
		{models.StatusReviewing, models.StatusRejected, true},
		{models.StatusDocumentRequired, models.StatusReviewing, false},
		{models.StatusDocumentReuploaded, models.StatusReviewing, true},
		{models.StatusDocumentReuploaded, models.StatusDocumentReuploaded, true},
		{models.StatusCompleted, models.StatusCompleted, false},
		{models.StatusRejected, models.StatusReviewing, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s to %s", tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestListForRetailer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fund(t, "retailer-1", 0)

	for range 2 {
		_, err := f.workflow.Create(ctx, panApplication(models.PayByWallet))
		require.NoError(t, err)
	}
	other := panApplication(models.PayByWallet)
	other.RetailerID = "retailer-2"
	_, err := f.workflow.Create(ctx, other)
	require.NoError(t, err)

	subs, err := f.workflow.ListForRetailer(ctx, "retailer-1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "sub-2", subs[0].Id)

	all, err := f.workflow.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type busyLedger struct{}

func (busyLedger) Post(ctx context.Context, e storage.Entry, commit ledger.CommitFunc) (*models.Transaction, error) {
	return nil, apperr.ErrConcurrentUpdate
}

func TestCreate_WalletBusy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := New(f.store, f.store, busyLedger{}, f.gateway)

	res, err := w.Create(ctx, panApplication(models.PayByWallet))
	require.NoError(t, err)
	assert.True(t, res.PaymentFailed)

	sub, err := w.GetForRetailer(ctx, "retailer-1", res.Submission.Id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, sub.PaymentStatus)
	require.Len(t, sub.StatusHistory, 1)
	assert.Equal(t, RemarkWalletBusy, sub.StatusHistory[0].Remarks)
}

func TestCreate_ConcurrentOnOneWallet(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := ledger.New(store)
	w := New(store, store, l, mocks.NewGateway(t))
	require.NoError(t, store.PutOption(ctx, &models.Option{
		OptionId:  "pan-new",
		ServiceId: "pan",
		Name:      "New PAN card",
		Price:     100,
		IsActive:  true,
	}))
	_, err := l.OpenWallet(ctx, "retailer-1")
	require.NoError(t, err)
	_, err = l.Credit(ctx, "retailer-1", 4000, nil)
	require.NoError(t, err)

	const applications = 64
	var wg sync.WaitGroup
	for range applications {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Create(ctx, CreateInput{RetailerID: "retailer-1", OptionID: "pan-new", PaymentMethod: models.PayByWallet})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	subs, err := w.ListForRetailer(ctx, "retailer-1")
	require.NoError(t, err)
	require.Len(t, subs, applications)

	paid := 0
	for _, sub := range subs {
		if sub.PaymentStatus == models.PaymentPaid {
			paid++
		} else {
			assert.Equal(t, RemarkInsufficientFunds, sub.StatusHistory[0].Remarks)
		}
	}
	assert.Equal(t, 40, paid)

	wallet, err := l.Wallet(ctx, "retailer-1")
	require.NoError(t, err)
	txs, err := l.Transactions(ctx, "retailer-1")
	require.NoError(t, err)
	var sum int64
	for _, tx := range txs {
		sum += tx.Signed()
	}
	assert.Equal(t, wallet.Balance, sum)
	assert.Equal(t, int64(0), wallet.Balance)
}
