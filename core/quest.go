package core

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// InitializeQuest appends a quest to the registry. The caller must hold
// SIGNER_ROLE: the trusted party that attests completions is also the one
// that defines what can be completed. A taken id is rejected rather than
// overwritten.
//
// Emitted events: one community event per entry of quest.Communities, in
// input order, followed by exactly one metadata event.
func (e *Engine) InitializeQuest(caller common.Address, quest Quest) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if err := e.requireRole(RoleSigner, caller); err != nil {
		return nil, err
	}
	if _, ok := e.quests[quest.ID]; ok {
		return nil, &DuplicateQuestError{QuestID: quest.ID}
	}

	stored := quest
	stored.Communities = append([]string(nil), quest.Communities...)
	e.quests[quest.ID] = &stored

	events := make([]Event, 0, len(stored.Communities)+1)
	for _, community := range stored.Communities {
		events = append(events, QuestCommunityEvent{QuestID: stored.ID, Community: community})
	}
	events = append(events, QuestMetadataEvent{
		QuestID:    stored.ID,
		QuestType:  stored.Type,
		Difficulty: stored.Difficulty,
		Title:      stored.Title,
	})
	return events, nil
}

// QuestByID returns a copy of a quest record.
func (e *Engine) QuestByID(id uint64) (Quest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := e.quests[id]
	if !ok {
		return Quest{}, false
	}
	out := *q
	out.Communities = append([]string(nil), q.Communities...)
	return out, true
}

// Quests returns all quests ordered by id.
func (e *Engine) Quests() []Quest {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Quest, 0, len(e.quests))
	for _, q := range e.quests {
		cp := *q
		cp.Communities = append([]string(nil), q.Communities...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
