package types

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/questforge/cubevault/core"
)

// ClaimPayload is the JSON form of one attestation. Field values must match
// what the signer signed byte for byte, or recovery yields a stranger.
type ClaimPayload struct {
	QuestID     uint64 `json:"quest_id"`
	Nonce       uint64 `json:"nonce"`
	Price       string `json:"price"` // wei, decimal string; empty means zero
	Recipient   string `json:"recipient" binding:"required"`
	UserID      string `json:"user_id"`
	CompletedAt uint64 `json:"completed_at"`
	WalletName  string `json:"wallet_name"`
	TokenURI    string `json:"token_uri"`
	EmbedOrigin string `json:"embed_origin"`
}

// MintRequest carries parallel claim/signature sequences, exactly as the
// engine consumes them. Signatures are 0x-prefixed hex.
type MintRequest struct {
	Claims     []ClaimPayload `json:"claims" binding:"required"`
	Signatures []string       `json:"signatures" binding:"required"`
	Payment    string         `json:"payment"` // wei, decimal string
}

type MintResponse struct {
	BatchID  string   `json:"batch_id"`
	TokenIDs []uint64 `json:"token_ids"`
	Root     string   `json:"root"`
}

type CubeResponse struct {
	TokenID     uint64 `json:"token_id"`
	QuestID     uint64 `json:"quest_id"`
	IssueNumber uint64 `json:"issue_number"`
	Owner       string `json:"owner"`
	UserID      string `json:"user_id"`
	CompletedAt uint64 `json:"completed_at"`
	WalletName  string `json:"wallet_name"`
	EmbedOrigin string `json:"embed_origin"`
	TokenURI    string `json:"token_uri"`
	Digest      string `json:"digest"`
	BatchID     string `json:"batch_id"`
}

type StatusResponse struct {
	MintingActive bool   `json:"minting_active"`
	NextTokenID   uint64 `json:"next_token_id"`
	BalanceWei    string `json:"balance_wei"`
	BalanceEther  string `json:"balance_ether"`
	ChainID       uint64 `json:"chain_id"`
}

type GrantRoleRequest struct {
	Role    string `json:"role" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type SetMintingRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type SetTokenURIRequest struct {
	TokenID uint64 `json:"token_id" binding:"required"`
	URI     string `json:"uri" binding:"required"`
}

type WithdrawResponse struct {
	To        string `json:"to"`
	AmountWei string `json:"amount_wei"`
}

type CubeListResponse struct {
	Cubes []CubeResponse `json:"cubes"`
}

// EventResponse is one persisted engine event. Payload carries the event's
// own JSON encoding untouched.
type EventResponse struct {
	BatchID string          `json:"batch_id"`
	Seq     int             `json:"seq"`
	Kind    string          `json:"kind"`
	QuestID *uint64         `json:"quest_id,omitempty"`
	TokenID *uint64         `json:"token_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

type BatchReceiptResponse struct {
	BatchID  string     `json:"batch_id"`
	Root     string     `json:"root"`
	Payment  string     `json:"payment"`
	TokenIDs []uint64   `json:"token_ids"`
	Proofs   [][]string `json:"proofs"`
}

// ToCoreClaim converts the payload, parsing price and recipient.
func (p *ClaimPayload) ToCoreClaim() (core.CubeClaim, error) {
	if !common.IsHexAddress(p.Recipient) {
		return core.CubeClaim{}, errors.Errorf("invalid recipient address %q", p.Recipient)
	}
	price := new(big.Int)
	if p.Price != "" {
		if _, ok := price.SetString(p.Price, 10); !ok || price.Sign() < 0 {
			return core.CubeClaim{}, errors.Errorf("invalid price %q", p.Price)
		}
	}
	return core.CubeClaim{
		QuestID:     p.QuestID,
		Nonce:       p.Nonce,
		Price:       price,
		Recipient:   common.HexToAddress(p.Recipient),
		UserID:      p.UserID,
		CompletedAt: p.CompletedAt,
		WalletName:  p.WalletName,
		TokenURI:    p.TokenURI,
		EmbedOrigin: p.EmbedOrigin,
	}, nil
}

// ParseRole resolves a role name or 0x-prefixed hash to its identifier.
func ParseRole(s string) (common.Hash, error) {
	switch s {
	case "ADMIN", "DEFAULT_ADMIN_ROLE":
		return core.RoleDefaultAdmin, nil
	case "SIGNER", "SIGNER_ROLE":
		return core.RoleSigner, nil
	case "UPGRADER", "UPGRADER_ROLE":
		return core.RoleUpgrader, nil
	}
	if len(s) == 66 && s[:2] == "0x" {
		return common.HexToHash(s), nil
	}
	return common.Hash{}, errors.Errorf("unknown role %q", s)
}
