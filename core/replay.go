package core

import "github.com/ethereum/go-ethereum/common"

// Consumed reports whether a digest has already been honored. Pure read.
func (e *Engine) Consumed(digest common.Hash) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.consumed[digest]
	return ok
}

// checkReplay rejects digests already in the consumed set or already seen
// earlier in the current batch. Caller holds the mutex, so the check and
// the later consume commit are atomic with respect to concurrent batches.
func (e *Engine) checkReplay(digest common.Hash, inBatch map[common.Hash]struct{}) error {
	if _, ok := e.consumed[digest]; ok {
		return &ReplayError{Digest: digest}
	}
	if _, ok := inBatch[digest]; ok {
		return &ReplayError{Digest: digest}
	}
	inBatch[digest] = struct{}{}
	return nil
}

// consume records a digest after the whole batch has validated. Once
// present, no future claim with that digest is ever honored.
func (e *Engine) consume(digest common.Hash) {
	e.consumed[digest] = struct{}{}
}
