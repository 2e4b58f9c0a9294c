package service

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/questforge/cubevault/core"
	"github.com/questforge/cubevault/dao"
	"github.com/questforge/cubevault/pkg/metrics"
	"github.com/questforge/cubevault/pkg/xzap"
	"github.com/questforge/cubevault/service/svc"
	types "github.com/questforge/cubevault/types/v1"
)

// MintCubes submits a batch of signed claims to the engine and, on full
// success, persists the minted cubes, the consumed digests, the event log
// and the audit receipt in one store transaction.
func MintCubes(ctx context.Context, s *svc.ServerCtx, req *types.MintRequest) (*types.MintResponse, error) {
	claims := make([]core.CubeClaim, len(req.Claims))
	for i := range req.Claims {
		claim, err := req.Claims[i].ToCoreClaim()
		if err != nil {
			return nil, err
		}
		claims[i] = claim
	}
	signatures := make([][]byte, len(req.Signatures))
	for i, raw := range req.Signatures {
		sig, err := hexutil.Decode(raw)
		if err != nil {
			return nil, &core.BatchItemError{Index: i, Err: &core.InvalidSignatureError{Reason: err.Error()}}
		}
		signatures[i] = sig
	}
	payment := new(big.Int)
	if req.Payment != "" {
		if _, ok := payment.SetString(req.Payment, 10); !ok {
			return nil, errors.Errorf("invalid payment %q", req.Payment)
		}
	}

	receipt, err := s.Engine.MintCubes(claims, signatures, payment)
	if err != nil {
		metrics.MintBatches.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	audit, err := core.NewBatchReceipt(receipt.Digests)
	if err != nil {
		return nil, errors.Wrap(err, "audit receipt")
	}

	batchID := uuid.NewString()
	cubes := make([]dao.CubeRecord, len(claims))
	digests := make([]dao.ConsumedDigest, len(claims))
	for i := range claims {
		c := &claims[i]
		cubes[i] = dao.CubeRecord{
			TokenID:     receipt.TokenIDs[i],
			QuestID:     c.QuestID,
			IssueNumber: receipt.IssueNumbers[i],
			Owner:       c.Recipient.Hex(),
			UserID:      c.UserID,
			CompletedAt: c.CompletedAt,
			WalletName:  c.WalletName,
			EmbedOrigin: c.EmbedOrigin,
			TokenURI:    c.TokenURI,
			Digest:      receipt.Digests[i].Hex(),
			Price:       c.Price.String(),
			BatchID:     batchID,
		}
		digests[i] = dao.ConsumedDigest{Digest: receipt.Digests[i].Hex()}
	}

	events, err := dao.EventRecordsFrom(batchID, receipt.Events)
	if err != nil {
		return nil, err
	}
	tokenIDs, err := json.Marshal(receipt.TokenIDs)
	if err != nil {
		return nil, err
	}
	proofs, err := json.Marshal(audit.Proofs)
	if err != nil {
		return nil, err
	}
	receiptRecord := &dao.BatchReceiptRecord{
		BatchID:  batchID,
		Root:     audit.Root.Hex(),
		Payment:  payment.String(),
		TokenIDs: string(tokenIDs),
		Proofs:   string(proofs),
	}
	state := &dao.EngineState{
		Initialized:   true,
		MintingActive: s.Engine.MintingActive(),
		NextTokenID:   s.Engine.NextTokenID(),
		Balance:       s.Engine.Balance().String(),
	}

	if err := s.Dao.ApplyMintBatch(ctx, cubes, digests, receiptRecord, events, state); err != nil {
		xzap.WithContext(ctx).Error("batch minted in engine but not persisted",
			zap.String("batch_id", batchID), zap.Error(err))
		return nil, errors.Wrap(err, "persist batch")
	}

	metrics.MintBatches.WithLabelValues("ok").Inc()
	metrics.CubesMinted.Add(float64(len(claims)))
	xzap.WithContext(ctx).Info("batch minted",
		zap.String("batch_id", batchID),
		zap.Int("cubes", len(claims)),
		zap.String("root", audit.Root.Hex()))

	return &types.MintResponse{
		BatchID:  batchID,
		TokenIDs: receipt.TokenIDs,
		Root:     audit.Root.Hex(),
	}, nil
}

// GetCube returns one minted cube by token id.
func GetCube(ctx context.Context, s *svc.ServerCtx, tokenID uint64) (*types.CubeResponse, error) {
	record, err := s.Dao.GetCubeByTokenID(ctx, tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "get cube")
	}
	resp := cubeResponseFrom(record)
	return &resp, nil
}

// ListCubes returns minted cubes filtered by quest id or owner address.
// Exactly one filter applies; quest id wins when both are supplied.
func ListCubes(ctx context.Context, s *svc.ServerCtx, questID *uint64, owner string) (*types.CubeListResponse, error) {
	var (
		records []dao.CubeRecord
		err     error
	)
	switch {
	case questID != nil:
		records, err = s.Dao.GetCubesByQuest(ctx, *questID)
	case owner != "":
		if !common.IsHexAddress(owner) {
			return nil, errors.Errorf("invalid owner address %q", owner)
		}
		// Owners are stored checksummed; normalize the filter the same way.
		records, err = s.Dao.GetCubesByOwner(ctx, common.HexToAddress(owner).Hex())
	default:
		return nil, errors.New("quest_id or owner filter required")
	}
	if err != nil {
		return nil, errors.Wrap(err, "list cubes")
	}

	resp := &types.CubeListResponse{Cubes: make([]types.CubeResponse, len(records))}
	for i := range records {
		resp.Cubes[i] = cubeResponseFrom(&records[i])
	}
	return resp, nil
}

func cubeResponseFrom(record *dao.CubeRecord) types.CubeResponse {
	return types.CubeResponse{
		TokenID:     record.TokenID,
		QuestID:     record.QuestID,
		IssueNumber: record.IssueNumber,
		Owner:       record.Owner,
		UserID:      record.UserID,
		CompletedAt: record.CompletedAt,
		WalletName:  record.WalletName,
		EmbedOrigin: record.EmbedOrigin,
		TokenURI:    record.TokenURI,
		Digest:      record.Digest,
		BatchID:     record.BatchID,
	}
}

func outcomeLabel(err error) string {
	var (
		itemErr  *core.BatchItemError
		authErr  *core.AuthorizationError
		sigErr   *core.InvalidSignatureError
		repErr   *core.ReplayError
		payErr   *core.InsufficientPaymentError
		claimErr *core.InvalidClaimError
	)
	inner := err
	if errors.As(err, &itemErr) {
		inner = itemErr.Err
	}
	switch {
	case errors.As(inner, &authErr):
		return "authorization"
	case errors.As(inner, &sigErr):
		return "invalid_signature"
	case errors.As(inner, &repErr):
		return "replay"
	case errors.As(inner, &payErr):
		return "insufficient_payment"
	case errors.As(inner, &claimErr):
		return "invalid_claim"
	case errors.Is(inner, core.ErrBatchShape):
		return "batch_shape"
	case errors.Is(inner, core.ErrMintingDisabled):
		return "minting_disabled"
	}
	return "error"
}
