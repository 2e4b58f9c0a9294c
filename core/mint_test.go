package core

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

// stateProbe captures the externally observable engine state for
// before/after atomicity checks.
type stateProbe struct {
	nextTokenID uint64
	issued      map[uint64]uint64
	balance     *big.Int
}

func probe(e *Engine, questIDs ...uint64) stateProbe {
	p := stateProbe{
		nextTokenID: e.NextTokenID(),
		issued:      make(map[uint64]uint64),
		balance:     e.Balance(),
	}
	for _, id := range questIDs {
		p.issued[id] = e.IssuedCount(id)
	}
	return p
}

func (p stateProbe) assertUnchanged(t *testing.T, e *Engine) {
	t.Helper()
	if e.NextTokenID() != p.nextTokenID {
		t.Fatal("token counter advanced on a failed batch")
	}
	for id, n := range p.issued {
		if e.IssuedCount(id) != n {
			t.Fatalf("issue counter for quest %d advanced on a failed batch", id)
		}
	}
	if e.Balance().Cmp(p.balance) != 0 {
		t.Fatal("balance changed on a failed batch")
	}
}

func TestMintSingleAndReplay(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	receipt, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, claim.Price)
	if err != nil {
		t.Fatal(err)
	}
	if len(receipt.TokenIDs) != 1 || receipt.TokenIDs[0] != 1 {
		t.Fatalf("token ids: %v", receipt.TokenIDs)
	}
	if receipt.IssueNumbers[0] != 1 {
		t.Fatalf("issue number: %d, want 1", receipt.IssueNumbers[0])
	}
	owner, err := rig.engine.Tokens().OwnerOf(1)
	if err != nil || owner != claim.Recipient {
		t.Fatalf("owner of token 1: %v %v", owner, err)
	}
	uri, _ := rig.engine.Tokens().URI(1)
	if uri != claim.TokenURI {
		t.Fatalf("token uri: %q", uri)
	}

	// The same attestation must never be honored twice.
	before := probe(rig.engine, 1)
	_, err = rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, claim.Price)
	var itemErr *BatchItemError
	var replayErr *ReplayError
	if !asError(err, &itemErr) || !asError(err, &replayErr) {
		t.Fatalf("replay: got %v", err)
	}
	if itemErr.Index != 0 {
		t.Fatalf("replay index: %d", itemErr.Index)
	}
	before.assertUnchanged(t, rig.engine)
}

func TestMintBatchAtomicityOnReplay(t *testing.T) {
	rig := newTestRig(t)

	first := testClaim(1, 1)
	firstSig := rig.sign(t, &first)
	if _, err := rig.engine.MintCubes([]CubeClaim{first}, [][]byte{firstSig}, first.Price); err != nil {
		t.Fatal(err)
	}

	fresh := testClaim(1, 2)
	freshSig := rig.sign(t, &fresh)
	before := probe(rig.engine, 1)

	// Item 1 is fine, item 2 replays the earlier digest: nothing may mint.
	payment := new(big.Int).Add(fresh.Price, first.Price)
	_, err := rig.engine.MintCubes([]CubeClaim{fresh, first}, [][]byte{freshSig, firstSig}, payment)
	var itemErr *BatchItemError
	var replayErr *ReplayError
	if !asError(err, &itemErr) || !asError(err, &replayErr) {
		t.Fatalf("got %v, want replay", err)
	}
	if itemErr.Index != 1 {
		t.Fatalf("offending index: %d, want 1", itemErr.Index)
	}
	before.assertUnchanged(t, rig.engine)
	if rig.engine.Consumed(rig.engine.Verifier().Digest(&fresh)) {
		t.Fatal("failed batch consumed a digest")
	}
	if _, err := rig.engine.Tokens().OwnerOf(2); err == nil {
		t.Fatal("failed batch minted a token")
	}
}

func TestMintInBatchDuplicate(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	payment := new(big.Int).Mul(claim.Price, big.NewInt(2))
	_, err := rig.engine.MintCubes([]CubeClaim{claim, claim}, [][]byte{sig, sig}, payment)
	var itemErr *BatchItemError
	var replayErr *ReplayError
	if !asError(err, &itemErr) || !asError(err, &replayErr) {
		t.Fatalf("got %v, want replay", err)
	}
	if itemErr.Index != 1 {
		t.Fatalf("offending index: %d, want 1", itemErr.Index)
	}
}

func TestMintBatchShape(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	if _, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig, sig}, claim.Price); err != ErrBatchShape {
		t.Fatalf("got %v, want ErrBatchShape", err)
	}
}

func TestMintWhileDisabled(t *testing.T) {
	rig := newTestRig(t)
	if _, err := rig.engine.SetIsMintingActive(rig.admin, false); err != nil {
		t.Fatal(err)
	}

	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)
	before := probe(rig.engine, 1)
	if _, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, claim.Price); err != ErrMintingDisabled {
		t.Fatalf("got %v, want ErrMintingDisabled", err)
	}
	before.assertUnchanged(t, rig.engine)
}

func TestMintInsufficientPayment(t *testing.T) {
	rig := newTestRig(t)
	a := testClaim(1, 1)
	b := testClaim(1, 2)
	sigs := [][]byte{rig.sign(t, &a), rig.sign(t, &b)}

	short := new(big.Int).Add(a.Price, b.Price)
	short.Sub(short, big.NewInt(1))

	before := probe(rig.engine, 1)
	_, err := rig.engine.MintCubes([]CubeClaim{a, b}, sigs, short)
	var payErr *InsufficientPaymentError
	if !asError(err, &payErr) {
		t.Fatalf("got %v, want InsufficientPaymentError", err)
	}
	before.assertUnchanged(t, rig.engine)
}

func TestMintExcessPaymentRetained(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	payment := new(big.Int).Add(claim.Price, big.NewInt(500))
	if _, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, payment); err != nil {
		t.Fatal(err)
	}
	if rig.engine.Balance().Cmp(payment) != 0 {
		t.Fatalf("balance %s, want full payment %s retained", rig.engine.Balance(), payment)
	}
}

func TestMintUnauthorizedSigner(t *testing.T) {
	rig := newTestRig(t)
	strangerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	claim := testClaim(1, 1)
	digest := rig.engine.Verifier().Digest(&claim)
	sig, err := crypto.Sign(digest.Bytes(), strangerKey)
	if err != nil {
		t.Fatal(err)
	}

	before := probe(rig.engine, 1)
	_, mintErr := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, claim.Price)
	var itemErr *BatchItemError
	var authErr *AuthorizationError
	if !asError(mintErr, &itemErr) || !asError(mintErr, &authErr) {
		t.Fatalf("got %v, want AuthorizationError", mintErr)
	}
	if authErr.Role != RoleSigner {
		t.Fatalf("reported role %s", authErr.Role.Hex())
	}
	before.assertUnchanged(t, rig.engine)
}

func TestMintMalformedSignature(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)

	cases := [][]byte{
		nil,
		make([]byte, 64),
		func() []byte { s := make([]byte, 65); s[64] = 5; return s }(),
	}
	for i, sig := range cases {
		_, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, claim.Price)
		var sigErr *InvalidSignatureError
		if !asError(err, &sigErr) {
			t.Fatalf("case %d: got %v, want InvalidSignatureError", i, err)
		}
	}
}

func TestMintNegatedPriceRejected(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	// The struct encoding hashes the price magnitude only, so negating a
	// signed price leaves the digest, and the recovered signer, unchanged.
	// The claim must be rejected before any payment math runs, or the
	// payment precondition compares against a negative sum.
	negated := claim
	negated.Price = new(big.Int).Neg(claim.Price)
	if rig.engine.Verifier().Digest(&negated) != rig.engine.Verifier().Digest(&claim) {
		t.Fatal("negated price changed the digest; revisit this test")
	}

	before := probe(rig.engine, 1)
	_, err := rig.engine.MintCubes([]CubeClaim{negated}, [][]byte{sig}, nil)
	var itemErr *BatchItemError
	var claimErr *InvalidClaimError
	if !asError(err, &itemErr) || !asError(err, &claimErr) {
		t.Fatalf("got %v, want InvalidClaimError", err)
	}
	if itemErr.Index != 0 {
		t.Fatalf("offending index: %d", itemErr.Index)
	}
	before.assertUnchanged(t, rig.engine)
	if _, err := rig.engine.Tokens().OwnerOf(1); err == nil {
		t.Fatal("negated price minted a token")
	}
}

func TestMintTamperedClaimRejected(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	sig := rig.sign(t, &claim)

	// Any single-field change after signing makes the digest recover to a
	// stranger, observed as an authorization failure.
	tampered := claim
	tampered.UserID = "user-43"

	_, err := rig.engine.MintCubes([]CubeClaim{tampered}, [][]byte{sig}, tampered.Price)
	var authErr *AuthorizationError
	if !asError(err, &authErr) {
		t.Fatalf("got %v, want AuthorizationError", err)
	}
}

func TestIssueNumbersContiguousPerQuest(t *testing.T) {
	rig := newTestRig(t)

	var claims []CubeClaim
	var sigs [][]byte
	total := new(big.Int)
	// Interleave two quests: issue numbers stay contiguous per quest no
	// matter what the global token ids do.
	for i, questID := range []uint64{1, 2, 1, 2, 1} {
		claim := testClaim(questID, uint64(i+1))
		claims = append(claims, claim)
		sigs = append(sigs, rig.sign(t, &claims[len(claims)-1]))
		total.Add(total, claim.Price)
	}

	receipt, err := rig.engine.MintCubes(claims, sigs, total)
	if err != nil {
		t.Fatal(err)
	}

	wantIssue := []uint64{1, 1, 2, 2, 3}
	wantToken := []uint64{1, 2, 3, 4, 5}
	for i := range claims {
		if receipt.IssueNumbers[i] != wantIssue[i] {
			t.Fatalf("item %d: issue %d, want %d", i, receipt.IssueNumbers[i], wantIssue[i])
		}
		if receipt.TokenIDs[i] != wantToken[i] {
			t.Fatalf("item %d: token %d, want %d", i, receipt.TokenIDs[i], wantToken[i])
		}
	}
	if rig.engine.IssuedCount(1) != 3 || rig.engine.IssuedCount(2) != 2 {
		t.Fatal("issue counters off")
	}
}

func TestMintEventOrder(t *testing.T) {
	rig := newTestRig(t)
	a := testClaim(1, 1)
	b := testClaim(2, 2)
	sigs := [][]byte{rig.sign(t, &a), rig.sign(t, &b)}

	receipt, err := rig.engine.MintCubes([]CubeClaim{a, b}, sigs, new(big.Int).Add(a.Price, b.Price))
	if err != nil {
		t.Fatal(err)
	}
	if len(receipt.Events) != 4 {
		t.Fatalf("got %d events, want 4", len(receipt.Events))
	}

	for i, claim := range []CubeClaim{a, b} {
		claimEv, ok := receipt.Events[2*i].(CubeClaimEvent)
		if !ok {
			t.Fatalf("event %d: %+v", 2*i, receipt.Events[2*i])
		}
		if claimEv.QuestID != claim.QuestID || claimEv.TokenID != receipt.TokenIDs[i] ||
			claimEv.UserID != claim.UserID || claimEv.WalletName != claim.WalletName {
			t.Fatalf("claim event %d: %+v", i, claimEv)
		}
		txEv, ok := receipt.Events[2*i+1].(CubeTransactionEvent)
		if !ok {
			t.Fatalf("event %d: %+v", 2*i+1, receipt.Events[2*i+1])
		}
		if txEv.TokenID != receipt.TokenIDs[i] || txEv.TxID != receipt.Digests[i] || txEv.ChainID != testConfig.ChainID {
			t.Fatalf("transaction event %d: %+v", i, txEv)
		}
	}
}

func TestMintNilPriceTreatedAsZero(t *testing.T) {
	rig := newTestRig(t)
	claim := testClaim(1, 1)
	claim.Price = nil
	sig := rig.sign(t, &claim)

	if _, err := rig.engine.MintCubes([]CubeClaim{claim}, [][]byte{sig}, nil); err != nil {
		t.Fatal(err)
	}
	if rig.engine.Balance().Sign() != 0 {
		t.Fatal("free mint credited a balance")
	}
}
