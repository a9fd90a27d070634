package models

import (
	"time"
)

// Direction encodes the sign of a ledger transaction.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

// Metadata keys recorded on ledger transactions.
const (
	MetaReason       = "reason"
	MetaSubmissionID = "submission_id"
	MetaOptionID     = "option_id"
	MetaOrderID      = "order_id"
	MetaActor        = "actor"
	MetaNote         = "note"
)

// Transaction is an immutable ledger entry. Seq is assigned by the store and
// increases strictly per wallet.
type Transaction struct {
	WalletId  string            `json:"wallet_id" dynamodbav:"wallet_id"`
	Seq       int64             `json:"seq" dynamodbav:"seq"`
	Id        string            `json:"id" dynamodbav:"id"`
	Direction Direction         `json:"direction" dynamodbav:"direction"`
	Amount    int64             `json:"amount" dynamodbav:"amount"`
	Meta      map[string]string `json:"meta,omitempty" dynamodbav:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// Signed returns the amount with the sign implied by the direction.
func (t Transaction) Signed() int64 {
	if t.Direction == Debit {
		return -t.Amount
	}
	return t.Amount
}

// Wallet is the prepaid balance of a retailer. Version is bumped by every
// ledger entry and doubles as the sequence number of the latest transaction.
type Wallet struct {
	UserId    string    `json:"user_id" dynamodbav:"user_id"`
	Balance   int64     `json:"balance" dynamodbav:"balance"`
	Currency  string    `json:"currency" dynamodbav:"currency"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Role of an account.
type Role string

const (
	RoleRetailer Role = "retailer"
	RoleAdmin    Role = "admin"
)

// User is a registered account, keyed by mobile number.
type User struct {
	UserId       string    `dynamodbav:"user_id"`
	Mobile       string    `dynamodbav:"mobile"`
	Name         string    `dynamodbav:"name"`
	Email        string    `dynamodbav:"email"`
	PasswordHash string    `dynamodbav:"password_hash"`
	Role         Role      `dynamodbav:"role"`
	IsActive     bool      `dynamodbav:"is_active"`
	// Verified is set by an administrator. Retailers cannot sign in before.
	Verified     bool      `dynamodbav:"is_verified"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
}

// FormField describes one input an option expects from the retailer.
type FormField struct {
	Name     string `json:"name" yaml:"name" dynamodbav:"name"`
	Label    string `json:"label" yaml:"label" dynamodbav:"label"`
	Type     string `json:"type" yaml:"type" dynamodbav:"type"`
	Required bool   `json:"required" yaml:"required" dynamodbav:"required"`
}

// Option is a purchasable catalog entry. Price is in minor currency units.
type Option struct {
	OptionId     string      `json:"option_id" yaml:"option_id" dynamodbav:"option_id"`
	ServiceId    string      `json:"service_id" yaml:"service_id" dynamodbav:"service_id"`
	SubServiceId string      `json:"sub_service_id" yaml:"sub_service_id" dynamodbav:"sub_service_id"`
	Name         string      `json:"name" yaml:"name" dynamodbav:"name"`
	Price        int64       `json:"price" yaml:"price" dynamodbav:"price"`
	IsActive     bool        `json:"is_active" yaml:"is_active" dynamodbav:"is_active"`
	FormFields   []FormField `json:"form_fields,omitempty" yaml:"form_fields" dynamodbav:"form_fields,omitempty"`
}

// OrderKind tells what a provider order pays for.
type OrderKind string

const (
	OrderForSubmission OrderKind = "submission"
	OrderForTopUp      OrderKind = "topup"
)

// OrderStatus of a provider order as seen by this system.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderPaid      OrderStatus = "paid"
	OrderUnapplied OrderStatus = "unapplied"
)

// PaymentOrder links a payment gateway order to what it pays for.
type PaymentOrder struct {
	OrderId      string      `json:"order_id" dynamodbav:"order_id"`
	Kind         OrderKind   `json:"kind" dynamodbav:"kind"`
	SubmissionId string      `json:"submission_id,omitempty" dynamodbav:"submission_id,omitempty"`
	UserId       string      `json:"user_id" dynamodbav:"user_id"`
	Amount       int64       `json:"amount" dynamodbav:"amount"`
	Currency     string      `json:"currency" dynamodbav:"currency"`
	Receipt      string      `json:"receipt" dynamodbav:"receipt"`
	Status       OrderStatus `json:"status" dynamodbav:"status"`
	PaymentId    string      `json:"payment_id,omitempty" dynamodbav:"payment_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}
