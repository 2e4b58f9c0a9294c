package core

import (
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Difficulty grades a quest.
type Difficulty uint8

const (
	DifficultyBeginner Difficulty = iota
	DifficultyIntermediate
	DifficultyAdvanced
	DifficultyExpert
)

// QuestType classifies how a quest is completed.
type QuestType uint8

const (
	QuestTypeQuest QuestType = iota
	QuestTypeStreak
	QuestTypeSocial
)

// Quest is an append-only registry record. Once created it is never
// updated or deleted.
type Quest struct {
	ID          uint64
	Title       string
	Difficulty  Difficulty
	Type        QuestType
	Communities []string
}

// CubeClaim is the attestation payload a trusted signer produces off-chain
// for one quest completion. Its digest, not the struct, is what the engine
// remembers: a claim is consumed exactly once.
type CubeClaim struct {
	QuestID     uint64
	Nonce       uint64
	Price       *big.Int
	Recipient   common.Address
	UserID      string
	CompletedAt uint64
	WalletName  string
	TokenURI    string
	EmbedOrigin string
}

// Config fixes the engine's typed-data domain at construction. Signer
// tooling must use identical values or every signature it produces will
// recover to the wrong principal.
type Config struct {
	DomainName      string
	DomainVersion   string
	ChainID         uint64
	ContractAddress common.Address
}

// Engine owns all persistent claim-verification state: role memberships,
// the quest registry, the consumed-digest set, issuance counters and the
// withdrawable balance. External callers mutate it only through the gated
// entry points; a single mutex serializes them, so every operation is an
// all-or-nothing unit of work.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	verifier *Verifier
	tokens   TokenRegistry

	initialized   bool
	mintingActive bool
	roles         map[common.Hash]map[common.Address]struct{}
	quests        map[uint64]*Quest
	consumed      map[common.Hash]struct{}
	issueCounters map[uint64]uint64
	nextTokenID   uint64
	balance       *big.Int
}

// NewEngine constructs an engine around a token registry. The engine is
// inert until Initialize (or a Hydrate of previously persisted state)
// arms it.
func NewEngine(cfg Config, tokens TokenRegistry) *Engine {
	return &Engine{
		cfg:           cfg,
		verifier:      NewVerifier(cfg.DomainName, cfg.DomainVersion, cfg.ChainID, cfg.ContractAddress),
		tokens:        tokens,
		roles:         make(map[common.Hash]map[common.Address]struct{}),
		quests:        make(map[uint64]*Quest),
		consumed:      make(map[common.Hash]struct{}),
		issueCounters: make(map[uint64]uint64),
		nextTokenID:   1,
		balance:       new(big.Int),
	}
}

// Initialize arms the engine exactly once, granting the bootstrap principal
// the admin and upgrader roles and opening minting. A second call fails
// with ErrAlreadyInitialized regardless of the caller.
func (e *Engine) Initialize(admin common.Address) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil, ErrAlreadyInitialized
	}
	e.initialized = true
	e.mintingActive = true

	events := []Event{
		e.grantRole(RoleDefaultAdmin, admin, admin),
		e.grantRole(RoleUpgrader, admin, admin),
	}
	return events, nil
}

// Initialized reports whether the one-time latch has fired.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Verifier exposes the engine's typed-data verifier so signer tooling and
// tests can compute digests against the same domain.
func (e *Engine) Verifier() *Verifier { return e.verifier }

// ChainID returns the network identifier the engine's domain is bound to.
func (e *Engine) ChainID() uint64 { return e.cfg.ChainID }

// Tokens returns the token registry collaborator.
func (e *Engine) Tokens() TokenRegistry { return e.tokens }

// MintingActive reports the state of the minting gate.
func (e *Engine) MintingActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mintingActive
}

// Balance returns a copy of the withdrawable balance.
func (e *Engine) Balance() *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return new(big.Int).Set(e.balance)
}

// NextTokenID returns the identifier the next minted token will receive.
func (e *Engine) NextTokenID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextTokenID
}

// IssuedCount returns how many tokens have been minted for a quest.
func (e *Engine) IssuedCount(questID uint64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.issueCounters[questID]
}

// Snapshot is the engine state the persistence layer stores and replays
// across restarts.
type Snapshot struct {
	Initialized   bool
	MintingActive bool
	Roles         map[common.Hash][]common.Address
	Quests        []Quest
	Consumed      []common.Hash
	IssueCounters map[uint64]uint64
	NextTokenID   uint64
	Balance       *big.Int
}

// Hydrate loads previously persisted state into a freshly constructed
// engine. It fails with ErrAlreadyInitialized once the latch has fired,
// so it cannot clobber a live engine.
func (e *Engine) Hydrate(s Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.initialized = s.Initialized
	e.mintingActive = s.MintingActive
	for role, principals := range s.Roles {
		for _, p := range principals {
			members, ok := e.roles[role]
			if !ok {
				members = make(map[common.Address]struct{})
				e.roles[role] = members
			}
			members[p] = struct{}{}
		}
	}
	for i := range s.Quests {
		q := s.Quests[i]
		e.quests[q.ID] = &q
	}
	for _, d := range s.Consumed {
		e.consumed[d] = struct{}{}
	}
	for id, n := range s.IssueCounters {
		e.issueCounters[id] = n
	}
	if s.NextTokenID > 0 {
		e.nextTokenID = s.NextTokenID
	}
	if s.Balance != nil {
		e.balance.Set(s.Balance)
	}
	return nil
}

// SnapshotState captures the full current state for persistence.
func (e *Engine) SnapshotState() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Initialized:   e.initialized,
		MintingActive: e.mintingActive,
		Roles:         make(map[common.Hash][]common.Address, len(e.roles)),
		IssueCounters: make(map[uint64]uint64, len(e.issueCounters)),
		NextTokenID:   e.nextTokenID,
		Balance:       new(big.Int).Set(e.balance),
	}
	for role, members := range e.roles {
		for p := range members {
			s.Roles[role] = append(s.Roles[role], p)
		}
	}
	for _, q := range e.quests {
		s.Quests = append(s.Quests, *q)
	}
	sort.Slice(s.Quests, func(i, j int) bool { return s.Quests[i].ID < s.Quests[j].ID })
	for d := range e.consumed {
		s.Consumed = append(s.Consumed, d)
	}
	for id, n := range e.issueCounters {
		s.IssueCounters[id] = n
	}
	return s
}
