package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/questforge/cubevault/dao"
	"github.com/questforge/cubevault/pkg/metrics"
	"github.com/questforge/cubevault/pkg/xzap"
	"github.com/questforge/cubevault/service/svc"
	types "github.com/questforge/cubevault/types/v1"
)

// GrantRole grants a role through the engine and mirrors it in the store.
func GrantRole(ctx context.Context, s *svc.ServerCtx, caller common.Address, req *types.GrantRoleRequest) error {
	role, err := types.ParseRole(req.Role)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(req.Address) {
		return errors.Errorf("invalid address %q", req.Address)
	}
	principal := common.HexToAddress(req.Address)

	if _, err := s.Engine.GrantRole(caller, role, principal); err != nil {
		return err
	}
	if err := s.Dao.GrantRole(ctx, role.Hex(), principal.Hex()); err != nil {
		return errors.Wrap(err, "persist role grant")
	}
	xzap.WithContext(ctx).Info("role granted",
		zap.String("role", role.Hex()), zap.String("principal", principal.Hex()))
	return nil
}

// RevokeRole revokes a role through the engine and mirrors it in the store.
func RevokeRole(ctx context.Context, s *svc.ServerCtx, caller common.Address, req *types.GrantRoleRequest) error {
	role, err := types.ParseRole(req.Role)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(req.Address) {
		return errors.Errorf("invalid address %q", req.Address)
	}
	principal := common.HexToAddress(req.Address)

	if _, err := s.Engine.RevokeRole(caller, role, principal); err != nil {
		return err
	}
	if err := s.Dao.RevokeRole(ctx, role.Hex(), principal.Hex()); err != nil {
		return errors.Wrap(err, "persist role revoke")
	}
	return nil
}

// HasRole is a pure read.
func HasRole(ctx context.Context, s *svc.ServerCtx, roleName, address string) (bool, error) {
	role, err := types.ParseRole(roleName)
	if err != nil {
		return false, err
	}
	if !common.IsHexAddress(address) {
		return false, errors.Errorf("invalid address %q", address)
	}
	return s.Engine.HasRole(role, common.HexToAddress(address)), nil
}

// SetMintingActive flips the minting gate.
func SetMintingActive(ctx context.Context, s *svc.ServerCtx, caller common.Address, active bool) error {
	if _, err := s.Engine.SetIsMintingActive(caller, active); err != nil {
		return err
	}
	err := s.Dao.SaveEngineState(ctx, &dao.EngineState{
		Initialized:   true,
		MintingActive: active,
		NextTokenID:   s.Engine.NextTokenID(),
		Balance:       s.Engine.Balance().String(),
	})
	if err != nil {
		return errors.Wrap(err, "persist minting flag")
	}
	xzap.WithContext(ctx).Info("minting flag set", zap.Bool("active", active))
	return nil
}

// SetTokenURI overrides a minted token's metadata locator.
func SetTokenURI(ctx context.Context, s *svc.ServerCtx, caller common.Address, req *types.SetTokenURIRequest) error {
	if _, err := s.Engine.SetTokenURI(caller, req.TokenID, req.URI); err != nil {
		return err
	}
	if err := s.Dao.UpdateCubeURI(ctx, req.TokenID, req.URI); err != nil {
		return errors.Wrap(err, "persist token uri")
	}
	return nil
}

// Withdraw transfers the entire balance to the calling admin. The transfer
// sink here is the store itself: the payout is recorded and the persisted
// balance drops to zero atomically with the engine's.
func Withdraw(ctx context.Context, s *svc.ServerCtx, caller common.Address) (*types.WithdrawResponse, error) {
	amount, err := s.Engine.Withdraw(caller, func(to common.Address, value *big.Int) error {
		xzap.WithContext(ctx).Info("withdrawal transfer",
			zap.String("to", to.Hex()), zap.String("amount_wei", value.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = s.Dao.SaveEngineState(ctx, &dao.EngineState{
		Initialized:   true,
		MintingActive: s.Engine.MintingActive(),
		NextTokenID:   s.Engine.NextTokenID(),
		Balance:       s.Engine.Balance().String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "persist withdrawal")
	}
	metrics.Withdrawals.Inc()
	return &types.WithdrawResponse{To: caller.Hex(), AmountWei: amount.String()}, nil
}

// Status reports the engine's observable scalars.
func Status(ctx context.Context, s *svc.ServerCtx) *types.StatusResponse {
	balance := s.Engine.Balance()
	ether := decimal.NewFromBigInt(balance, -18)
	return &types.StatusResponse{
		MintingActive: s.Engine.MintingActive(),
		NextTokenID:   s.Engine.NextTokenID(),
		BalanceWei:    balance.String(),
		BalanceEther:  ether.String(),
		ChainID:       s.Engine.ChainID(),
	}
}

// GetBatchReceipt returns the audit receipt of one honored batch.
func GetBatchReceipt(ctx context.Context, s *svc.ServerCtx, batchID string) (*types.BatchReceiptResponse, error) {
	record, err := s.Dao.GetBatchReceipt(ctx, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "get batch receipt")
	}
	resp := &types.BatchReceiptResponse{
		BatchID: record.BatchID,
		Root:    record.Root,
		Payment: record.Payment,
	}
	if err := unmarshalJSON(record.TokenIDs, &resp.TokenIDs); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(record.Proofs, &resp.Proofs); err != nil {
		return nil, err
	}
	return resp, nil
}
