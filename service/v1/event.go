package service

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/questforge/cubevault/dao"
	"github.com/questforge/cubevault/service/svc"
	types "github.com/questforge/cubevault/types/v1"
)

// ListEvents returns persisted engine events filtered by quest id, token id
// or batch id. Exactly one filter applies, checked in that order.
func ListEvents(ctx context.Context, s *svc.ServerCtx, questID, tokenID *uint64, batchID string) (*types.EventListResponse, error) {
	var (
		records []dao.EventRecord
		err     error
	)
	switch {
	case questID != nil:
		records, err = s.Dao.GetEventsByQuest(ctx, *questID)
	case tokenID != nil:
		records, err = s.Dao.GetEventsByToken(ctx, *tokenID)
	case batchID != "":
		records, err = s.Dao.GetEventsByBatch(ctx, batchID)
	default:
		return nil, errors.New("quest_id, token_id or batch_id filter required")
	}
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}

	resp := &types.EventListResponse{Events: make([]types.EventResponse, len(records))}
	for i := range records {
		resp.Events[i] = eventResponseFrom(&records[i])
	}
	return resp, nil
}

func eventResponseFrom(record *dao.EventRecord) types.EventResponse {
	return types.EventResponse{
		BatchID: record.BatchID,
		Seq:     record.Seq,
		Kind:    record.Kind,
		QuestID: record.QuestID,
		TokenID: record.TokenID,
		Payload: json.RawMessage(record.Payload),
	}
}
