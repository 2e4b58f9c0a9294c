package types

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/questforge/cubevault/core"
)

type CreateQuestRequest struct {
	QuestID     uint64   `json:"quest_id" binding:"required"`
	Title       string   `json:"title" binding:"required,max=200"`
	Difficulty  string   `json:"difficulty" binding:"required"`
	QuestType   string   `json:"quest_type" binding:"required"`
	Communities []string `json:"communities"`
}

type QuestResponse struct {
	QuestID     uint64   `json:"quest_id"`
	Title       string   `json:"title"`
	Difficulty  string   `json:"difficulty"`
	QuestType   string   `json:"quest_type"`
	Communities []string `json:"communities"`
	Issued      uint64   `json:"issued"`
}

type QuestListResponse struct {
	Quests []QuestResponse `json:"quests"`
}

var difficultyNames = map[core.Difficulty]string{
	core.DifficultyBeginner:     "BEGINNER",
	core.DifficultyIntermediate: "INTERMEDIATE",
	core.DifficultyAdvanced:     "ADVANCED",
	core.DifficultyExpert:       "EXPERT",
}

var questTypeNames = map[core.QuestType]string{
	core.QuestTypeQuest:  "QUEST",
	core.QuestTypeStreak: "STREAK",
	core.QuestTypeSocial: "SOCIAL",
}

func ParseDifficulty(s string) (core.Difficulty, error) {
	for d, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}
	return 0, errors.Errorf("unknown difficulty %q", s)
}

func ParseQuestType(s string) (core.QuestType, error) {
	for t, name := range questTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown quest type %q", s)
}

func DifficultyName(d core.Difficulty) string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

func QuestTypeName(t core.QuestType) string {
	if name, ok := questTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

func QuestResponseFrom(q core.Quest, issued uint64) QuestResponse {
	return QuestResponse{
		QuestID:     q.ID,
		Title:       q.Title,
		Difficulty:  DifficultyName(q.Difficulty),
		QuestType:   QuestTypeName(q.Type),
		Communities: q.Communities,
		Issued:      issued,
	}
}
