package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/questforge/cubevault/core"
	"github.com/questforge/cubevault/dao"
	"github.com/questforge/cubevault/pkg/metrics"
	"github.com/questforge/cubevault/pkg/xzap"
	"github.com/questforge/cubevault/service/svc"
	types "github.com/questforge/cubevault/types/v1"
)

// CreateQuest runs the role-gated quest registration and persists the
// record with its emitted events.
func CreateQuest(ctx context.Context, s *svc.ServerCtx, caller common.Address, req *types.CreateQuestRequest) (*types.QuestResponse, error) {
	difficulty, err := types.ParseDifficulty(req.Difficulty)
	if err != nil {
		return nil, err
	}
	questType, err := types.ParseQuestType(req.QuestType)
	if err != nil {
		return nil, err
	}

	quest := core.Quest{
		ID:          req.QuestID,
		Title:       req.Title,
		Difficulty:  difficulty,
		Type:        questType,
		Communities: req.Communities,
	}
	events, err := s.Engine.InitializeQuest(caller, quest)
	if err != nil {
		return nil, err
	}

	records, err := dao.EventRecordsFrom(uuid.NewString(), events)
	if err != nil {
		return nil, err
	}
	if err := s.Dao.CreateQuest(ctx, quest, records); err != nil {
		// The engine holds the quest but the store does not; surface loudly
		// so the operator reconciles before restart.
		xzap.WithContext(ctx).Error("quest persisted in engine but not in store",
			zap.Uint64("quest_id", quest.ID), zap.Error(err))
		return nil, errors.Wrap(err, "persist quest")
	}
	metrics.QuestsCreated.Inc()

	xzap.WithContext(ctx).Info("quest created",
		zap.Uint64("quest_id", quest.ID), zap.String("title", quest.Title))
	resp := types.QuestResponseFrom(quest, 0)
	return &resp, nil
}

// GetQuest returns one quest with its issuance count.
func GetQuest(ctx context.Context, s *svc.ServerCtx, questID uint64) (*types.QuestResponse, error) {
	quest, ok := s.Engine.QuestByID(questID)
	if !ok {
		return nil, errors.Errorf("quest %d not found", questID)
	}
	resp := types.QuestResponseFrom(quest, s.Engine.IssuedCount(questID))
	return &resp, nil
}

// ListQuests returns quests ordered by id, paginated.
func ListQuests(ctx context.Context, s *svc.ServerCtx, page, pageSize int) (*types.QuestListResponse, error) {
	records, err := s.Dao.GetQuestsByPage(ctx, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "list quests")
	}
	resp := &types.QuestListResponse{Quests: make([]types.QuestResponse, 0, len(records))}
	for _, r := range records {
		quest, ok := s.Engine.QuestByID(r.QuestID)
		if !ok {
			continue
		}
		resp.Quests = append(resp.Quests, types.QuestResponseFrom(quest, s.Engine.IssuedCount(r.QuestID)))
	}
	return resp, nil
}
