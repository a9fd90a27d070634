package storage

import (
	"errors"

	"github.com/chris/retailer-services/pkg/apperr"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a create would overwrite an existing record.
var ErrAlreadyExists = errors.New("record already exists")

// ErrVersionConflict is returned when a conditional write lost a race with
// another writer. Callers re-read and retry.
var ErrVersionConflict = errors.New("record was modified concurrently")

// ErrOrderProcessed is returned when a payment order is no longer awaiting confirmation.
var ErrOrderProcessed = errors.New("payment order already processed")

// ErrInsufficientFunds is returned when a wallet has an insufficient balance for a debit.
var ErrInsufficientFunds = apperr.ErrInsufficientFunds

// ErrAlreadyPaid is returned when a payment targets a submission that is already paid.
var ErrAlreadyPaid = apperr.ErrAlreadyPaid
