package dao

import "context"

// GetBatchReceipt fetches the audit receipt of one honored batch.
func (d *Dao) GetBatchReceipt(c context.Context, batchID string) (*BatchReceiptRecord, error) {
	var record BatchReceiptRecord
	err := d.DB.WithContext(c).
		Table(BatchReceiptTableName()).Where("batch_id = ?", batchID).First(&record).Error
	return &record, err
}

// GetEventsByBatch lists the events one call emitted, in emission order.
func (d *Dao) GetEventsByBatch(c context.Context, batchID string) ([]EventRecord, error) {
	var records []EventRecord
	err := d.DB.WithContext(c).
		Table(EventTableName()).Where("batch_id = ?", batchID).
		Order("seq").Find(&records).Error
	return records, err
}

// GetEventsByQuest lists every persisted event referencing a quest.
func (d *Dao) GetEventsByQuest(c context.Context, questID uint64) ([]EventRecord, error) {
	var records []EventRecord
	err := d.DB.WithContext(c).
		Table(EventTableName()).Where("quest_id = ?", questID).
		Order("id").Find(&records).Error
	return records, err
}

// GetEventsByToken lists every persisted event referencing a token.
func (d *Dao) GetEventsByToken(c context.Context, tokenID uint64) ([]EventRecord, error) {
	var records []EventRecord
	err := d.DB.WithContext(c).
		Table(EventTableName()).Where("token_id = ?", tokenID).
		Order("id").Find(&records).Error
	return records, err
}
