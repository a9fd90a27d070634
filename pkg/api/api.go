// Package api holds the request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SendOtpRequest asks for a code for the given purpose.
type SendOtpRequest struct {
	Mobile  string `json:"mobile" validate:"required,min=10,max=16"`
	Purpose string `json:"purpose" validate:"required,oneof=register login"`
}

// OtpIssued describes a delivered code.
type OtpIssued struct {
	Message          string    `json:"message"`
	ExpiresAt        time.Time `json:"expiresAt"`
	ResendCount      int       `json:"resendCount"`
	RemainingResends int       `json:"remainingResends"`
}

// RegisterRequest creates a retailer account.
type RegisterRequest struct {
	Mobile   string              `json:"mobile" validate:"required,min=10,max=16"`
	Name     string              `json:"name" validate:"required,max=100"`
	Email    openapi_types.Email `json:"email" validate:"required"`
	Password string              `json:"password" validate:"required,min=8,max=72"`
	Otp      string              `json:"otp" validate:"required,numeric"`
}

// LoginRequest starts a password login.
type LoginRequest struct {
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyLoginRequest completes a login with the code sent to the mobile.
type VerifyLoginRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	Otp    string `json:"otp" validate:"required,numeric"`
}

// User is the public view of an account.
type User struct {
	Id        string              `json:"id"`
	Mobile    string              `json:"mobile"`
	Name      string              `json:"name"`
	Email     openapi_types.Email `json:"email,omitempty"`
	Role      string              `json:"role"`
	IsActive  bool                `json:"isActive"`
	Verified  bool                `json:"isVerified"`
	CreatedAt time.Time           `json:"createdAt"`
}

// VerifyRetailerRequest approves or withdraws a retailer's verification.
type VerifyRetailerRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// UserStatusUpdate activates or deactivates an account.
type UserStatusUpdate struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Session is returned by a completed login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Wallet is a prepaid balance in minor units.
type Wallet struct {
	UserId    string    `json:"userId"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction is one ledger entry.
type Transaction struct {
	Id        openapi_types.UUID `json:"id"`
	Seq       int64              `json:"seq"`
	Type      string             `json:"type"`
	Amount    int64              `json:"amount"`
	Reason    string             `json:"reason,omitempty"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TopUpRequest opens a gateway order that credits the wallet once paid.
type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// CreditRequest is a manual wallet credit by an admin.
type CreditRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Note   string `json:"note" validate:"required,max=500"`
}

// PaymentOrder is what the browser needs to open the provider checkout.
type PaymentOrder struct {
	OrderId  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyId    string `json:"keyId"`
}

// File is an uploaded document reference.
type File struct {
	Field string `json:"field" validate:"required"`
	Name  string `json:"name"`
	Url   string `json:"url" validate:"required,url"`
}

// NewSubmission applies for a catalog option.
type NewSubmission struct {
	OptionId      string            `json:"optionId" validate:"required"`
	Data          map[string]string `json:"data"`
	Files         []File            `json:"files" validate:"dive"`
	PaymentMethod string            `json:"paymentMethod" validate:"required,oneof=wallet online"`
}

// RetryPaymentRequest pays a failed or pending submission again.
type RetryPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=wallet online"`
}

// ReUploadRequest answers a document request.
type ReUploadRequest struct {
	Files []File `json:"files" validate:"required,min=1,dive"`
}

// VerifyPaymentRequest carries the fields the provider checkout returns.
type VerifyPaymentRequest struct {
	OrderId   string `json:"razorpay_order_id" validate:"required"`
	PaymentId string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// PaymentVerified is the result of a checkout verification.
type PaymentVerified struct {
	OrderId      string `json:"orderId"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	SubmissionId string `json:"submissionId,omitempty"`
	Duplicate    bool   `json:"duplicate"`
}

// StatusUpdate is an admin review decision.
type StatusUpdate struct {
	Status  string `json:"status" validate:"required"`
	Remarks string `json:"remarks" validate:"max=1000"`
}

// StatusEntry is one audit record.
type StatusEntry struct {
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	Remarks       string    `json:"remarks,omitempty"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Submission is the API view of a submission.
type Submission struct {
	Id              string            `json:"id"`
	RetailerId      string            `json:"retailerId"`
	ServiceId       string            `json:"serviceId"`
	SubServiceId    string            `json:"subServiceId"`
	OptionId        string            `json:"optionId"`
	Data            map[string]string `json:"data,omitempty"`
	Files           []File            `json:"files"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	PaymentMethod   string            `json:"paymentMethod"`
	PaymentStatus   string            `json:"paymentStatus"`
	OrderId         string            `json:"orderId,omitempty"`
	Status          string            `json:"status"`
	AdminRemarks    string            `json:"adminRemarks,omitempty"`
	StatusHistory   []StatusEntry     `json:"statusHistory"`
	ReUploadedFiles []File            `json:"reUploadedFiles"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// SubmissionResult is returned when a submission is created or paid again.
type SubmissionResult struct {
	Submission    Submission    `json:"submission"`
	Transaction   *Transaction  `json:"transaction,omitempty"`
	Order         *PaymentOrder `json:"order,omitempty"`
	PaymentFailed bool          `json:"paymentFailed"`
	Message       string        `json:"message,omitempty"`
}

// Message is a plain acknowledgement.
type Message struct {
	Message string `json:"message"`
}
