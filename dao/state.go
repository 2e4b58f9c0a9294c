package dao

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/questforge/cubevault/core"
)

const engineStateID = 1

// LoadSnapshot assembles the persisted engine state for hydration. A fresh
// store yields a zero snapshot (Initialized false), which tells the caller
// to run the first-boot initialization.
func (d *Dao) LoadSnapshot(c context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	var state EngineState
	err := d.DB.WithContext(c).Table(EngineStateTableName()).
		Where("id = ?", engineStateID).First(&state).Error
	switch {
	case err == nil:
		snap.Initialized = state.Initialized
		snap.MintingActive = state.MintingActive
		snap.NextTokenID = state.NextTokenID
		balance, ok := new(big.Int).SetString(state.Balance, 10)
		if !ok {
			return snap, errors.Errorf("corrupt balance %q", state.Balance)
		}
		snap.Balance = balance
	case errors.Is(err, gorm.ErrRecordNotFound):
		return snap, nil
	default:
		return snap, errors.Wrap(err, "load engine state")
	}

	quests, err := d.AllQuests(c)
	if err != nil {
		return snap, errors.Wrap(err, "load quests")
	}
	snap.Quests = quests

	var digests []ConsumedDigest
	if err := d.DB.WithContext(c).Table(ConsumedDigestTableName()).Find(&digests).Error; err != nil {
		return snap, errors.Wrap(err, "load consumed digests")
	}
	for _, rec := range digests {
		snap.Consumed = append(snap.Consumed, common.HexToHash(rec.Digest))
	}

	var roles []RoleRecord
	if err := d.DB.WithContext(c).Table(RoleTableName()).Find(&roles).Error; err != nil {
		return snap, errors.Wrap(err, "load roles")
	}
	snap.Roles = make(map[common.Hash][]common.Address)
	for _, rec := range roles {
		role := common.HexToHash(rec.Role)
		snap.Roles[role] = append(snap.Roles[role], common.HexToAddress(rec.Principal))
	}

	type issueRow struct {
		QuestID uint64
		N       uint64
	}
	var rows []issueRow
	if err := d.DB.WithContext(c).Table(CubeTableName()).
		Select("quest_id, max(issue_number) as n").Group("quest_id").Scan(&rows).Error; err != nil {
		return snap, errors.Wrap(err, "load issue counters")
	}
	snap.IssueCounters = make(map[uint64]uint64, len(rows))
	for _, row := range rows {
		snap.IssueCounters[row.QuestID] = row.N
	}
	return snap, nil
}

// SaveEngineState upserts the singleton scalar row.
func (d *Dao) SaveEngineState(c context.Context, state *EngineState) error {
	return d.saveEngineStateTx(d.DB.WithContext(c), state)
}

func (d *Dao) saveEngineStateTx(tx *gorm.DB, state *EngineState) error {
	state.ID = engineStateID
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(state).Error
}

// GrantRole persists a role membership. Re-grants are no-ops.
func (d *Dao) GrantRole(c context.Context, role, principal string) error {
	return d.DB.WithContext(c).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RoleRecord{Role: role, Principal: principal}).Error
}

// RevokeRole removes a role membership.
func (d *Dao) RevokeRole(c context.Context, role, principal string) error {
	return d.DB.WithContext(c).
		Where("role = ? and principal = ?", role, principal).
		Delete(&RoleRecord{}).Error
}
