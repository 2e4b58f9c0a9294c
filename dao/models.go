package dao

import "gorm.io/gorm"

// QuestRecord mirrors one engine quest. Append-only: quests are never
// updated or deleted.
type QuestRecord struct {
	gorm.Model
	QuestID     uint64 `gorm:"uniqueIndex" json:"quest_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Difficulty  uint8  `gorm:"not null" json:"difficulty"`
	QuestType   uint8  `gorm:"not null" json:"quest_type"`
	Communities string `gorm:"type:text" json:"communities"` // json-encoded tag list, input order preserved
}

func QuestTableName() string {
	return "quest_records"
}

// CubeRecord is one minted completion token.
type CubeRecord struct {
	gorm.Model
	TokenID     uint64 `gorm:"uniqueIndex" json:"token_id"`
	QuestID     uint64 `gorm:"index" json:"quest_id"`
	IssueNumber uint64 `gorm:"not null" json:"issue_number"`
	Owner       string `gorm:"size:42;index" json:"owner"`
	UserID      string `gorm:"size:100" json:"user_id"`
	CompletedAt uint64 `json:"completed_at"`
	WalletName  string `gorm:"size:100" json:"wallet_name"`
	EmbedOrigin string `gorm:"size:255" json:"embed_origin"`
	TokenURI    string `gorm:"size:255" json:"token_uri"`
	Digest      string `gorm:"size:66;uniqueIndex" json:"digest"`
	Price       string `gorm:"size:78" json:"price"` // wei, decimal string
	BatchID     string `gorm:"size:36;index" json:"batch_id"`
}

func CubeTableName() string {
	return "cube_records"
}

// ConsumedDigest is one entry of the persistent replay set.
type ConsumedDigest struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Digest string `gorm:"size:66;uniqueIndex" json:"digest"`
}

func ConsumedDigestTableName() string {
	return "consumed_digests"
}

// RoleRecord is one role membership.
type RoleRecord struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Role      string `gorm:"size:66;uniqueIndex:idx_role_principal" json:"role"`
	Principal string `gorm:"size:42;uniqueIndex:idx_role_principal" json:"principal"`
}

func RoleTableName() string {
	return "role_records"
}

// EventRecord is one persisted engine event. Seq preserves the emission
// order within the originating call.
type EventRecord struct {
	ID      int64   `gorm:"primaryKey" json:"id"`
	BatchID string  `gorm:"size:36;index" json:"batch_id"`
	Seq     int     `gorm:"not null" json:"seq"`
	Kind    string  `gorm:"size:40;index" json:"kind"`
	QuestID *uint64 `gorm:"index" json:"quest_id,omitempty"`
	TokenID *uint64 `gorm:"index" json:"token_id,omitempty"`
	Payload string  `gorm:"type:text" json:"payload"`
}

func EventTableName() string {
	return "event_records"
}

// BatchReceiptRecord is the audit receipt of one honored mint batch.
type BatchReceiptRecord struct {
	gorm.Model
	BatchID  string `gorm:"size:36;uniqueIndex" json:"batch_id"`
	Root     string `gorm:"size:66" json:"root"`
	Payment  string `gorm:"size:78" json:"payment"`
	TokenIDs string `gorm:"type:text" json:"token_ids"` // json-encoded, input order
	Proofs   string `gorm:"type:text" json:"proofs"`    // json-encoded per-item sibling lists
}

func BatchReceiptTableName() string {
	return "batch_receipt_records"
}

// EngineState is the singleton row holding the engine's scalar state.
type EngineState struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	Initialized   bool   `json:"initialized"`
	MintingActive bool   `json:"minting_active"`
	NextTokenID   uint64 `json:"next_token_id"`
	Balance       string `gorm:"size:78" json:"balance"` // wei, decimal string
}

func EngineStateTableName() string {
	return "engine_states"
}
