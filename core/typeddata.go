package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// cubeClaimType is the versioned wire layout of a claim. Field order and
// types are a compatibility contract with signer tooling: changing them
// invalidates every unconsumed signature in the wild.
const cubeClaimType = "CubeClaim(uint256 questId,uint256 nonce,uint256 price,address recipient,string userId,uint256 completedAt,string walletName,string tokenUri,string embedOrigin)"

const eip712DomainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"

var (
	cubeClaimTypeHash    = crypto.Keccak256Hash([]byte(cubeClaimType))
	eip712DomainTypeHash = crypto.Keccak256Hash([]byte(eip712DomainType))
)

// Verifier turns claims into domain-separated digests and recovers the
// signing principal from signatures over them. It is a pure function of
// its inputs plus the domain parameters fixed at construction: the domain
// binds every signature to one deployment on one network.
type Verifier struct {
	domainSeparator common.Hash
}

// NewVerifier precomputes the domain separator for the given deployment.
func NewVerifier(name, version string, chainID uint64, contract common.Address) *Verifier {
	var data []byte
	data = append(data, eip712DomainTypeHash.Bytes()...)
	data = append(data, crypto.Keccak256([]byte(name))...)
	data = append(data, crypto.Keccak256([]byte(version))...)
	data = append(data, encodeUint64(chainID)...)
	data = append(data, padBytesLeft(contract.Bytes(), 32)...)
	return &Verifier{domainSeparator: crypto.Keccak256Hash(data)}
}

// DomainSeparator returns the precomputed separator.
func (v *Verifier) DomainSeparator() common.Hash { return v.domainSeparator }

// Digest computes the signable fingerprint of a claim. Every field
// contributes, so flipping a single byte anywhere in the claim yields a
// different digest. The digest doubles as the replay-detection key.
func (v *Verifier) Digest(c *CubeClaim) common.Hash {
	var enc []byte
	enc = append(enc, cubeClaimTypeHash.Bytes()...)
	enc = append(enc, encodeUint64(c.QuestID)...)
	enc = append(enc, encodeUint64(c.Nonce)...)
	enc = append(enc, encodeBig(c.Price)...)
	enc = append(enc, padBytesLeft(c.Recipient.Bytes(), 32)...)
	enc = append(enc, crypto.Keccak256([]byte(c.UserID))...)
	enc = append(enc, encodeUint64(c.CompletedAt)...)
	enc = append(enc, crypto.Keccak256([]byte(c.WalletName))...)
	enc = append(enc, crypto.Keccak256([]byte(c.TokenURI))...)
	enc = append(enc, crypto.Keccak256([]byte(c.EmbedOrigin))...)
	structHash := crypto.Keccak256(enc)

	var data []byte
	data = append(data, 0x19, 0x01)
	data = append(data, v.domainSeparator.Bytes()...)
	data = append(data, structHash...)
	return crypto.Keccak256Hash(data)
}

// RecoverSigner recovers the principal that signed the digest. Signatures
// are 65-byte [R || S || V]; V is accepted as 0/1 or 27/28.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, &InvalidSignatureError{Reason: "signature must be 65 bytes"}
	}
	s := make([]byte, crypto.SignatureLength)
	copy(s, sig)
	if s[64] >= 27 {
		s[64] -= 27
	}
	if s[64] > 1 {
		return common.Address{}, &InvalidSignatureError{Reason: "invalid recovery id"}
	}
	pub, err := crypto.SigToPub(digest.Bytes(), s)
	if err != nil {
		return common.Address{}, &InvalidSignatureError{Reason: err.Error()}
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func encodeUint64(v uint64) []byte {
	return padBytesLeft(new(big.Int).SetUint64(v).Bytes(), 32)
}

// encodeBig encodes the magnitude only; callers reject negative values
// before any digest is computed.
func encodeBig(v *big.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	return padBytesLeft(v.Bytes(), 32)
}

func padBytesLeft(original []byte, targetLength int) []byte {
	if len(original) >= targetLength {
		return original
	}
	padded := make([]byte, targetLength)
	copy(padded[targetLength-len(original):], original)
	return padded
}
