package core

import "github.com/ethereum/go-ethereum/common"

// EventKind discriminates the event payloads appended by engine operations.
type EventKind string

const (
	EventQuestCommunity   EventKind = "quest_community"
	EventQuestMetadata    EventKind = "quest_metadata"
	EventCubeClaim        EventKind = "cube_claim"
	EventCubeTransaction  EventKind = "cube_transaction"
	EventTokenURIUpdated  EventKind = "token_uri_updated"
	EventMintingActiveSet EventKind = "minting_active_set"
	EventRoleGranted      EventKind = "role_granted"
	EventRoleRevoked      EventKind = "role_revoked"
)

// Event is an entry of the ordered log a successful operation produces.
// Order within one call is part of the observable contract: for quest
// creation all community events precede the metadata event, and for a
// batch mint the claim/transaction event pair of item i precedes those
// of item i+1.
type Event interface {
	Kind() EventKind
}

// QuestCommunityEvent associates a quest with one community tag.
type QuestCommunityEvent struct {
	QuestID   uint64 `json:"quest_id"`
	Community string `json:"community"`
}

func (QuestCommunityEvent) Kind() EventKind { return EventQuestCommunity }

// QuestMetadataEvent carries the descriptive fields of a newly created quest.
type QuestMetadataEvent struct {
	QuestID    uint64     `json:"quest_id"`
	QuestType  QuestType  `json:"quest_type"`
	Difficulty Difficulty `json:"difficulty"`
	Title      string     `json:"title"`
}

func (QuestMetadataEvent) Kind() EventKind { return EventQuestMetadata }

// CubeClaimEvent records one honored attestation.
type CubeClaimEvent struct {
	QuestID     uint64 `json:"quest_id"`
	TokenID     uint64 `json:"token_id"`
	IssueNumber uint64 `json:"issue_number"`
	UserID      string `json:"user_id"`
	CompletedAt uint64 `json:"completed_at"`
	WalletName  string `json:"wallet_name"`
	EmbedOrigin string `json:"embed_origin"`
}

func (CubeClaimEvent) Kind() EventKind { return EventCubeClaim }

// CubeTransactionEvent links a minted token to a transaction identifier on
// a specific network. The engine uses the claim digest as a self-referential
// identifier.
type CubeTransactionEvent struct {
	TokenID uint64      `json:"token_id"`
	TxID    common.Hash `json:"tx_id"`
	ChainID uint64      `json:"chain_id"`
}

func (CubeTransactionEvent) Kind() EventKind { return EventCubeTransaction }

// TokenURIUpdatedEvent records an administrative metadata override.
type TokenURIUpdatedEvent struct {
	TokenID uint64 `json:"token_id"`
	URI     string `json:"uri"`
}

func (TokenURIUpdatedEvent) Kind() EventKind { return EventTokenURIUpdated }

// MintingActiveSetEvent records a flip of the minting gate.
type MintingActiveSetEvent struct {
	Active bool `json:"active"`
}

func (MintingActiveSetEvent) Kind() EventKind { return EventMintingActiveSet }

// RoleGrantedEvent records a role membership grant.
type RoleGrantedEvent struct {
	Role      common.Hash    `json:"role"`
	Principal common.Address `json:"principal"`
	GrantedBy common.Address `json:"granted_by"`
}

func (RoleGrantedEvent) Kind() EventKind { return EventRoleGranted }

// RoleRevokedEvent records a role membership revocation.
type RoleRevokedEvent struct {
	Role      common.Hash    `json:"role"`
	Principal common.Address `json:"principal"`
	RevokedBy common.Address `json:"revoked_by"`
}

func (RoleRevokedEvent) Kind() EventKind { return EventRoleRevoked }
