package mapping

import (
	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/submission"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserId:    wallet.UserId,
		Balance:   wallet.Balance,
		Currency:  wallet.Currency,
		Version:   wallet.Version,
		UpdatedAt: wallet.UpdatedAt,
	}
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
// Ids that are not UUIDs map to the nil UUID.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	id, err := uuid.Parse(tx.Id)
	if err != nil {
		id = uuid.Nil
	}
	return &api.Transaction{
		Id:        openapi_types.UUID(id),
		Seq:       tx.Seq,
		Type:      string(tx.Direction),
		Amount:    tx.Amount,
		Reason:    tx.Meta[models.MetaReason],
		Metadata:  tx.Meta,
		CreatedAt: tx.CreatedAt,
	}
}

// ToApiTransactions converts a list of transactions, preserving order.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiUser converts a domain User to its public view. The password hash never leaves.
func ToApiUser(user *models.User) *api.User {
	return &api.User{
		Id:        user.UserId,
		Mobile:    user.Mobile,
		Name:      user.Name,
		Email:     openapi_types.Email(user.Email),
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

// ToApiUsers converts a list of accounts.
func ToApiUsers(users []models.User) []*api.User {
	out := make([]*api.User, len(users))
	for i := range users {
		out[i] = ToApiUser(&users[i])
	}
	return out
}

// ToApiPaymentOrder converts a gateway order into what the checkout widget needs.
func ToApiPaymentOrder(order *payment.Order, keyID string) *api.PaymentOrder {
	if order == nil {
		return nil
	}
	return &api.PaymentOrder{
		OrderId:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		KeyId:    keyID,
	}
}

func toApiFiles(files []models.FileRef) []api.File {
	out := make([]api.File, len(files))
	for i, f := range files {
		out[i] = api.File{Field: f.Field, Name: f.Name, Url: f.URL}
	}
	return out
}

// ToDomainFiles converts uploaded file references from a request.
func ToDomainFiles(files []api.File) []models.FileRef {
	out := make([]models.FileRef, len(files))
	for i, f := range files {
		out[i] = models.FileRef{Field: f.Field, Name: f.Name, URL: f.Url}
	}
	return out
}

// ToApiSubmission converts a domain Submission model to an API Submission model.
func ToApiSubmission(sub *models.Submission) *api.Submission {
	history := make([]api.StatusEntry, len(sub.StatusHistory))
	for i, e := range sub.StatusHistory {
		history[i] = api.StatusEntry{
			Status:        string(e.Status),
			PaymentStatus: string(e.PaymentStatus),
			Remarks:       e.Remarks,
			UpdatedBy:     e.UpdatedBy,
			UpdatedAt:     e.UpdatedAt,
		}
	}

	return &api.Submission{
		Id:              sub.Id,
		RetailerId:      sub.RetailerId,
		ServiceId:       sub.ServiceId,
		SubServiceId:    sub.SubServiceId,
		OptionId:        sub.OptionId,
		Data:            sub.Data,
		Files:           toApiFiles(sub.Files),
		Amount:          sub.Amount,
		Currency:        sub.Currency,
		PaymentMethod:   string(sub.PaymentMethod),
		PaymentStatus:   string(sub.PaymentStatus),
		OrderId:         sub.OrderId,
		Status:          string(sub.Status),
		AdminRemarks:    sub.AdminRemarks,
		StatusHistory:   history,
		ReUploadedFiles: toApiFiles(sub.ReUploadedFiles),
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}

// ToApiSubmissions converts a list of submissions, preserving order.
func ToApiSubmissions(subs []models.Submission) []*api.Submission {
	out := make([]*api.Submission, len(subs))
	for i := range subs {
		out[i] = ToApiSubmission(&subs[i])
	}
	return out
}

// ToApiSubmissionResult converts the outcome of a create or a payment retry.
func ToApiSubmissionResult(res *submission.Result, keyID string) *api.SubmissionResult {
	out := &api.SubmissionResult{
		Submission:    *ToApiSubmission(res.Submission),
		Order:         ToApiPaymentOrder(res.Order, keyID),
		PaymentFailed: res.PaymentFailed,
		Message:       res.Message,
	}
	if res.Transaction != nil {
		out.Transaction = ToApiTransaction(res.Transaction)
	}
	return out
}

// ToApiPaymentVerified converts a checkout confirmation.
func ToApiPaymentVerified(c *checkout.Confirmation) *api.PaymentVerified {
	return &api.PaymentVerified{
		OrderId:      c.Order.OrderId,
		Kind:         string(c.Order.Kind),
		Status:       string(c.Order.Status),
		SubmissionId: c.Order.SubmissionId,
		Duplicate:    c.Duplicate,
	}
}
