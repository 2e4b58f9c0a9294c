package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferFunc moves value out of the engine during a withdrawal. A
// returned error aborts the withdrawal with TransferError and leaves the
// balance untouched.
type TransferFunc func(to common.Address, amount *big.Int) error

// SetIsMintingActive flips the minting gate. Admin only. While the gate is
// closed MintCubes rejects every batch regardless of validity.
func (e *Engine) SetIsMintingActive(caller common.Address, active bool) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if err := e.requireRole(RoleDefaultAdmin, caller); err != nil {
		return nil, err
	}
	e.mintingActive = active
	return []Event{MintingActiveSetEvent{Active: active}}, nil
}

// SetTokenURI overrides the metadata locator of an already minted token.
// Admin only.
func (e *Engine) SetTokenURI(caller common.Address, tokenID uint64, uri string) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if err := e.requireRole(RoleDefaultAdmin, caller); err != nil {
		return nil, err
	}
	if err := e.tokens.SetURI(tokenID, uri); err != nil {
		return nil, err
	}
	return []Event{TokenURIUpdatedEvent{TokenID: tokenID, URI: uri}}, nil
}

// Withdraw transfers the entire balance to the calling admin. After a
// successful transfer the balance is exactly zero; if the transfer
// mechanism reports failure nothing changes.
func (e *Engine) Withdraw(caller common.Address, transfer TransferFunc) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if err := e.requireRole(RoleDefaultAdmin, caller); err != nil {
		return nil, err
	}

	amount := new(big.Int).Set(e.balance)
	if amount.Sign() > 0 && transfer != nil {
		if err := transfer(caller, amount); err != nil {
			return nil, &TransferError{Err: err}
		}
	}
	e.balance.SetUint64(0)
	return amount, nil
}

// Deposit credits unsolicited incoming value. Passive receipt always
// succeeds and emits nothing.
func (e *Engine) Deposit(amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.balance.Add(e.balance, amount)
}
