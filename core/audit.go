package core

import (
	"bytes"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/txaty/go-merkletree"
)

// BatchReceipt is the audit record of one honored batch: a keccak merkle
// root over the item digests plus one inclusion proof per item. An
// external verifier can check that a token's digest was part of an honored
// batch without ever seeing the signatures.
type BatchReceipt struct {
	Root   common.Hash
	Proofs [][]string // hex-encoded sibling hashes, per item, in input order
}

type digestBlock struct {
	data []byte
}

func (b *digestBlock) Serialize() ([]byte, error) {
	return b.data, nil
}

func keccak256Wrapper(data []byte) ([]byte, error) {
	return crypto.Keccak256(data), nil
}

// NewBatchReceipt builds the audit receipt for the digests of a successful
// batch. A single-item batch is paired with itself so the tree always has
// at least two leaves.
func NewBatchReceipt(digests []common.Hash) (*BatchReceipt, error) {
	if len(digests) == 0 {
		return &BatchReceipt{}, nil
	}

	blocks := make([]merkletree.DataBlock, 0, len(digests)+1)
	for _, d := range digests {
		blocks = append(blocks, &digestBlock{data: d.Bytes()})
	}
	if len(blocks) == 1 {
		blocks = append(blocks, &digestBlock{data: digests[0].Bytes()})
	}

	tree, err := merkletree.New(&merkletree.Config{
		HashFunc:         keccak256Wrapper,
		Mode:             merkletree.ModeProofGenAndTreeBuild,
		SortSiblingPairs: true,
	}, blocks)
	if err != nil {
		return nil, err
	}

	receipt := &BatchReceipt{
		Root:   common.BytesToHash(tree.Root),
		Proofs: make([][]string, len(digests)),
	}
	for i := range digests {
		proof, err := tree.Proof(blocks[i])
		if err != nil {
			return nil, err
		}
		siblings := make([]string, len(proof.Siblings))
		for j, sibling := range proof.Siblings {
			siblings[j] = "0x" + hex.EncodeToString(sibling)
		}
		receipt.Proofs[i] = siblings
	}
	return receipt, nil
}

// VerifyInclusion replays an inclusion proof against a receipt root. The
// sibling order matches the proof encoding and pairs are hashed in sorted
// order, mirroring how the tree was built.
func VerifyInclusion(root common.Hash, digest common.Hash, proof []string) bool {
	acc := crypto.Keccak256(digest.Bytes())
	for _, hexSibling := range proof {
		raw := hexSibling
		if len(raw) >= 2 && raw[:2] == "0x" {
			raw = raw[2:]
		}
		sibling, err := hex.DecodeString(raw)
		if err != nil {
			return false
		}
		if bytes.Compare(acc, sibling) <= 0 {
			acc = crypto.Keccak256(append(append([]byte{}, acc...), sibling...))
		} else {
			acc = crypto.Keccak256(append(append([]byte{}, sibling...), acc...))
		}
	}
	return common.BytesToHash(acc) == root
}
