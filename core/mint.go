package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MintReceipt is returned for a fully successful batch: one token id and
// one digest per claim, in input order, plus the ordered event log.
type MintReceipt struct {
	TokenIDs     []uint64
	IssueNumbers []uint64
	Digests      []common.Hash
	Events       []Event
}

// MintCubes validates and applies a batch of (claim, signature) pairs as a
// single all-or-nothing unit. Validation touches no state; only when every
// item has passed does the commit phase mint tokens, advance counters,
// consume digests and credit the payment. A failure reports the specific
// error kind, wrapped with the offending index where one applies, and
// leaves the engine exactly as it was.
//
// Payment in excess of the summed claim prices is retained in the
// withdrawable balance, not refunded. Quest existence is deliberately not
// checked: a signed claim for an unknown quest id is the signer's
// prerogative and mints against that id.
func (e *Engine) MintCubes(claims []CubeClaim, signatures [][]byte, payment *big.Int) (*MintReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if len(claims) != len(signatures) {
		return nil, ErrBatchShape
	}
	if !e.mintingActive {
		return nil, ErrMintingDisabled
	}
	if payment == nil {
		payment = new(big.Int)
	}

	// The struct encoding hashes the price magnitude only, so a negated
	// price collides with the signed digest. Negative prices are therefore
	// never valid claims.
	required := new(big.Int)
	for i := range claims {
		if claims[i].Price != nil {
			if claims[i].Price.Sign() < 0 {
				return nil, &BatchItemError{Index: i, Err: &InvalidClaimError{Reason: "negative price"}}
			}
			required.Add(required, claims[i].Price)
		}
	}
	if payment.Cmp(required) < 0 {
		return nil, &InsufficientPaymentError{Required: required, Provided: new(big.Int).Set(payment)}
	}

	// Validation pass: no state is touched until every item has passed.
	digests := make([]common.Hash, len(claims))
	inBatch := make(map[common.Hash]struct{}, len(claims))
	for i := range claims {
		digest := e.verifier.Digest(&claims[i])
		digests[i] = digest

		signer, err := RecoverSigner(digest, signatures[i])
		if err != nil {
			return nil, &BatchItemError{Index: i, Err: err}
		}
		if !e.hasRole(RoleSigner, signer) {
			return nil, &BatchItemError{Index: i, Err: &AuthorizationError{Role: RoleSigner, Principal: signer}}
		}
		if err := e.checkReplay(digest, inBatch); err != nil {
			return nil, &BatchItemError{Index: i, Err: err}
		}
	}

	// Commit pass: cannot fail. Token ids are fresh by construction, so
	// the registry mint is infallible per its contract.
	receipt := &MintReceipt{
		TokenIDs:     make([]uint64, len(claims)),
		IssueNumbers: make([]uint64, len(claims)),
		Digests:      digests,
		Events:       make([]Event, 0, 2*len(claims)),
	}
	for i := range claims {
		c := &claims[i]

		tokenID := e.nextTokenID
		e.nextTokenID++
		e.issueCounters[c.QuestID]++
		issueNumber := e.issueCounters[c.QuestID]

		e.consume(digests[i])
		e.tokens.Mint(c.Recipient, tokenID, c.TokenURI)

		receipt.TokenIDs[i] = tokenID
		receipt.IssueNumbers[i] = issueNumber
		receipt.Events = append(receipt.Events,
			CubeClaimEvent{
				QuestID:     c.QuestID,
				TokenID:     tokenID,
				IssueNumber: issueNumber,
				UserID:      c.UserID,
				CompletedAt: c.CompletedAt,
				WalletName:  c.WalletName,
				EmbedOrigin: c.EmbedOrigin,
			},
			CubeTransactionEvent{
				TokenID: tokenID,
				TxID:    digests[i],
				ChainID: e.cfg.ChainID,
			},
		)
	}
	e.balance.Add(e.balance, payment)

	return receipt, nil
}
