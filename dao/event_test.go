package dao

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/questforge/cubevault/core"
)

func TestEventRecordsFrom(t *testing.T) {
	events := []core.Event{
		core.CubeClaimEvent{QuestID: 7, TokenID: 42, IssueNumber: 3, UserID: "user-42"},
		core.CubeTransactionEvent{TokenID: 42, TxID: common.HexToHash("0xabc1"), ChainID: 11155111},
		core.QuestMetadataEvent{QuestID: 7, Title: "Quest Title"},
	}

	records, err := EventRecordsFrom("batch-1", events)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	for i, record := range records {
		if record.BatchID != "batch-1" || record.Seq != i {
			t.Fatalf("record %d: %+v", i, record)
		}
		if record.Kind != string(events[i].Kind()) {
			t.Fatalf("record %d kind: %s", i, record.Kind)
		}
	}

	if records[0].QuestID == nil || *records[0].QuestID != 7 {
		t.Fatal("claim event lost its quest id")
	}
	if records[0].TokenID == nil || *records[0].TokenID != 42 {
		t.Fatal("claim event lost its token id")
	}
	if records[1].QuestID != nil || records[1].TokenID == nil {
		t.Fatalf("transaction event indexing: %+v", records[1])
	}
	if records[2].TokenID != nil || records[2].QuestID == nil {
		t.Fatalf("metadata event indexing: %+v", records[2])
	}

	var decoded core.CubeClaimEvent
	if err := json.Unmarshal([]byte(records[0].Payload), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.UserID != "user-42" || decoded.IssueNumber != 3 {
		t.Fatalf("payload round trip: %+v", decoded)
	}
}
