package models

import (
	"time"
)

// ReviewStatus is the administrative stage of a submission.
type ReviewStatus string

const (
	StatusSubmitted          ReviewStatus = "Submitted"
	StatusPending            ReviewStatus = "Pending"
	StatusReviewing          ReviewStatus = "Reviewing"
	StatusDocumentRequired   ReviewStatus = "Document Required"
	StatusDocumentReuploaded ReviewStatus = "Document Re-uploaded"
	StatusRejected           ReviewStatus = "Rejected"
	StatusCompleted          ReviewStatus = "Completed"
)

// Terminal reports whether no further review transitions are allowed.
func (s ReviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusPending, StatusReviewing, StatusDocumentRequired,
		StatusDocumentReuploaded, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// PaymentMethod chosen by the retailer.
type PaymentMethod string

const (
	PayByWallet PaymentMethod = "wallet"
	PayOnline   PaymentMethod = "online"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PayByWallet || m == PayOnline
}

// PaymentStatus of a submission, orthogonal to its review status.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// FileRef points at an uploaded document.
type FileRef struct {
	Field string `json:"field" dynamodbav:"field"`
	Name  string `json:"name" dynamodbav:"name"`
	URL   string `json:"url" dynamodbav:"url"`
}

// StatusEntry is one append-only audit record of a submission. PaymentStatus
// is set when the entry records a payment event.
type StatusEntry struct {
	Status        ReviewStatus  `json:"status" dynamodbav:"status"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty" dynamodbav:"payment_status,omitempty"`
	Remarks       string        `json:"remarks,omitempty" dynamodbav:"remarks,omitempty"`
	UpdatedBy     string        `json:"updated_by" dynamodbav:"updated_by"`
	UpdatedAt     time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// Submission is a retailer application for a catalog option.
type Submission struct {
	Id              string            `dynamodbav:"id"`
	RetailerId      string            `dynamodbav:"retailer_id"`
	ServiceId       string            `dynamodbav:"service_id"`
	SubServiceId    string            `dynamodbav:"sub_service_id"`
	OptionId        string            `dynamodbav:"option_id"`
	Data            map[string]string `dynamodbav:"data,omitempty"`
	Files           []FileRef         `dynamodbav:"files"`
	Amount          int64             `dynamodbav:"amount"`
	Currency        string            `dynamodbav:"currency"`
	PaymentMethod   PaymentMethod     `dynamodbav:"payment_method"`
	PaymentStatus   PaymentStatus     `dynamodbav:"payment_status"`
	OrderId         string            `dynamodbav:"order_id,omitempty"`
	Status          ReviewStatus      `dynamodbav:"status"`
	AdminRemarks    string            `dynamodbav:"admin_remarks,omitempty"`
	StatusHistory   []StatusEntry     `dynamodbav:"status_history"`
	ReUploadedFiles []FileRef         `dynamodbav:"re_uploaded_files"`
	CreatedAt       time.Time         `dynamodbav:"created_at"`
	UpdatedAt       time.Time         `dynamodbav:"updated_at"`
}
