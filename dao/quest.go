package dao

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/questforge/cubevault/core"
)

// CreateQuest persists a quest together with the events its creation
// emitted, in one transaction.
func (d *Dao) CreateQuest(c context.Context, quest core.Quest, events []EventRecord) error {
	communities, err := json.Marshal(quest.Communities)
	if err != nil {
		return err
	}
	record := &QuestRecord{
		QuestID:     quest.ID,
		Title:       quest.Title,
		Difficulty:  uint8(quest.Difficulty),
		QuestType:   uint8(quest.Type),
		Communities: string(communities),
	}
	return d.DB.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetQuestByID fetches one quest record.
func (d *Dao) GetQuestByID(c context.Context, questID uint64) (*QuestRecord, error) {
	var record QuestRecord
	err := d.DB.WithContext(c).
		Table(QuestTableName()).Where("quest_id = ?", questID).First(&record).Error
	return &record, err
}

// GetQuestsByPage lists quest records, paginated.
func (d *Dao) GetQuestsByPage(c context.Context, page, pageSize int) ([]QuestRecord, error) {
	var records []QuestRecord
	err := d.DB.WithContext(c).
		Table(QuestTableName()).Order("quest_id").
		Limit(pageSize).Offset((page - 1) * pageSize).Find(&records).Error
	return records, err
}

// AllQuests loads every quest for engine hydration.
func (d *Dao) AllQuests(c context.Context) ([]core.Quest, error) {
	var records []QuestRecord
	if err := d.DB.WithContext(c).Table(QuestTableName()).Order("quest_id").Find(&records).Error; err != nil {
		return nil, err
	}
	quests := make([]core.Quest, 0, len(records))
	for _, r := range records {
		var communities []string
		if r.Communities != "" {
			if err := json.Unmarshal([]byte(r.Communities), &communities); err != nil {
				return nil, err
			}
		}
		quests = append(quests, core.Quest{
			ID:          r.QuestID,
			Title:       r.Title,
			Difficulty:  core.Difficulty(r.Difficulty),
			Type:        core.QuestType(r.QuestType),
			Communities: communities,
		})
	}
	return quests, nil
}
