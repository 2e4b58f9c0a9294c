package core

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Standard non-fungible-token interface identifiers.
var (
	InterfaceERC721         = [4]byte{0x80, 0xac, 0x58, 0xcd}
	InterfaceERC721Metadata = [4]byte{0x5b, 0x5e, 0x13, 0x9f}
)

// TokenRegistry is the external collaborator providing non-fungible-token
// ownership semantics. The engine never reimplements transfer mechanics;
// it only mints and overrides metadata locators.
//
// Mint is called exclusively with token ids the engine has never issued
// before, so implementations must treat it as infallible for fresh ids.
type TokenRegistry interface {
	Mint(owner common.Address, tokenID uint64, uri string)
	SetURI(tokenID uint64, uri string) error
	OwnerOf(tokenID uint64) (common.Address, error)
	URI(tokenID uint64) (string, error)
	SupportsInterface(id [4]byte) bool
}

// MemoryRegistry is an in-process TokenRegistry. It backs the engine in
// tests and single-node deployments; the dao mirrors its contents for
// durability.
type MemoryRegistry struct {
	mu     sync.RWMutex
	owners map[uint64]common.Address
	uris   map[uint64]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		owners: make(map[uint64]common.Address),
		uris:   make(map[uint64]string),
	}
}

func (r *MemoryRegistry) Mint(owner common.Address, tokenID uint64, uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[tokenID] = owner
	r.uris[tokenID] = uri
}

func (r *MemoryRegistry) SetURI(tokenID uint64, uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[tokenID]; !ok {
		return &UnknownTokenError{TokenID: tokenID}
	}
	r.uris[tokenID] = uri
	return nil
}

func (r *MemoryRegistry) OwnerOf(tokenID uint64) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[tokenID]
	if !ok {
		return common.Address{}, &UnknownTokenError{TokenID: tokenID}
	}
	return owner, nil
}

func (r *MemoryRegistry) URI(tokenID uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uri, ok := r.uris[tokenID]
	if !ok {
		return "", &UnknownTokenError{TokenID: tokenID}
	}
	return uri, nil
}

func (r *MemoryRegistry) SupportsInterface(id [4]byte) bool {
	return id == InterfaceERC721 || id == InterfaceERC721Metadata
}
