package dao

import (
	"encoding/json"

	"github.com/questforge/cubevault/core"
)

// EventRecordsFrom flattens an engine event log into rows, preserving
// emission order through Seq and indexing by quest/token id where the
// event carries one.
func EventRecordsFrom(batchID string, events []core.Event) ([]EventRecord, error) {
	records := make([]EventRecord, 0, len(events))
	for seq, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		record := EventRecord{
			BatchID: batchID,
			Seq:     seq,
			Kind:    string(ev.Kind()),
			Payload: string(payload),
		}
		switch e := ev.(type) {
		case core.QuestCommunityEvent:
			id := e.QuestID
			record.QuestID = &id
		case core.QuestMetadataEvent:
			id := e.QuestID
			record.QuestID = &id
		case core.CubeClaimEvent:
			qid, tid := e.QuestID, e.TokenID
			record.QuestID = &qid
			record.TokenID = &tid
		case core.CubeTransactionEvent:
			tid := e.TokenID
			record.TokenID = &tid
		case core.TokenURIUpdatedEvent:
			tid := e.TokenID
			record.TokenID = &tid
		}
		records = append(records, record)
	}
	return records, nil
}
