package dao

import (
	"context"

	"gorm.io/gorm"
)

// ApplyMintBatch persists everything a successful batch produced — cube
// rows, consumed digests, the audit receipt, the event log and the updated
// engine scalars — in one transaction, so the store can never hold half a
// batch.
func (d *Dao) ApplyMintBatch(
	c context.Context,
	cubes []CubeRecord,
	digests []ConsumedDigest,
	receipt *BatchReceiptRecord,
	events []EventRecord,
	state *EngineState,
) error {
	return d.DB.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if len(cubes) > 0 {
			if err := tx.Create(&cubes).Error; err != nil {
				return err
			}
		}
		if len(digests) > 0 {
			if err := tx.Create(&digests).Error; err != nil {
				return err
			}
		}
		if receipt != nil {
			if err := tx.Create(receipt).Error; err != nil {
				return err
			}
		}
		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		if state != nil {
			if err := d.saveEngineStateTx(tx, state); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCubeByTokenID fetches one minted cube.
func (d *Dao) GetCubeByTokenID(c context.Context, tokenID uint64) (*CubeRecord, error) {
	var record CubeRecord
	err := d.DB.WithContext(c).
		Table(CubeTableName()).Where("token_id = ?", tokenID).First(&record).Error
	return &record, err
}

// GetCubesByQuest lists the cubes minted for one quest in issue order.
func (d *Dao) GetCubesByQuest(c context.Context, questID uint64) ([]CubeRecord, error) {
	var records []CubeRecord
	err := d.DB.WithContext(c).
		Table(CubeTableName()).Where("quest_id = ?", questID).
		Order("issue_number").Find(&records).Error
	return records, err
}

// GetCubesByOwner lists the cubes held by one principal.
func (d *Dao) GetCubesByOwner(c context.Context, owner string) ([]CubeRecord, error) {
	var records []CubeRecord
	err := d.DB.WithContext(c).
		Table(CubeTableName()).Where("owner = ?", owner).
		Order("token_id").Find(&records).Error
	return records, err
}

// UpdateCubeURI records an administrative token-uri override.
func (d *Dao) UpdateCubeURI(c context.Context, tokenID uint64, uri string) error {
	return d.DB.WithContext(c).
		Table(CubeTableName()).Where("token_id = ?", tokenID).
		Update("token_uri", uri).Error
}
