package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Sentinel errors for conditions that carry no extra context.
var (
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrNotInitialized     = errors.New("engine not initialized")
	ErrBatchShape         = errors.New("claims and signatures length mismatch")
	ErrMintingDisabled    = errors.New("minting is disabled")
)

// AuthorizationError reports a principal that lacks the role required by
// the attempted operation. The recovered signer of a claim that does not
// hold SIGNER_ROLE surfaces as this same error kind.
type AuthorizationError struct {
	Role      common.Hash
	Principal common.Address
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("principal %s lacks role %s", e.Principal.Hex(), e.Role.Hex())
}

// DuplicateQuestError reports a quest id that already exists.
type DuplicateQuestError struct {
	QuestID uint64
}

func (e *DuplicateQuestError) Error() string {
	return fmt.Sprintf("quest %d already exists", e.QuestID)
}

// InvalidClaimError reports a claim whose field values cannot be honored
// no matter who signed it, such as a negative price.
type InvalidClaimError struct {
	Reason string
}

func (e *InvalidClaimError) Error() string {
	return fmt.Sprintf("invalid claim: %s", e.Reason)
}

// InsufficientPaymentError reports a batch payment below the sum of the
// per-claim prices.
type InsufficientPaymentError struct {
	Required *big.Int
	Provided *big.Int
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment %s below required %s", e.Provided, e.Required)
}

// InvalidSignatureError reports signature bytes that could not be decoded
// or recovered.
type InvalidSignatureError struct {
	Reason string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature: %s", e.Reason)
}

// ReplayError reports a claim digest that has already been consumed, either
// by an earlier batch or by an earlier item of the same batch.
type ReplayError struct {
	Digest common.Hash
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("digest %s already consumed", e.Digest.Hex())
}

// TransferError reports a failed withdrawal transfer. The balance is left
// untouched when it occurs.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("withdrawal transfer failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// UnknownTokenError reports a token id absent from the token registry.
type UnknownTokenError struct {
	TokenID uint64
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %d", e.TokenID)
}

// BatchItemError wraps the error of the batch item that made the whole
// mint call fail, keeping the offending index so the caller can correct
// and resubmit.
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("batch item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error { return e.Err }
