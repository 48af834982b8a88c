package models

// LevelID identifies one mini-game activity on the level map.
type LevelID string

const (
	LevelFlashcards      LevelID = "FLASHCARDS"
	LevelImageQuiz       LevelID = "IMAGE_QUIZ"
	LevelMemory          LevelID = "MEMORY"
	LevelSpelling        LevelID = "SPELLING"
	LevelOddOneOut       LevelID = "ODD_ONE_OUT"
	LevelQuiz            LevelID = "QUIZ"
	LevelSentenceBuilder LevelID = "SENTENCE_BUILDER"
	LevelStoryReading    LevelID = "STORY_READING"
	LevelWordInvaders    LevelID = "WORD_INVADERS"
)

// DefaultLevelOrder is the map layout shipped with the client.
var DefaultLevelOrder = []LevelID{
	LevelFlashcards,
	LevelImageQuiz,
	LevelMemory,
	LevelSpelling,
	LevelOddOneOut,
	LevelQuiz,
	LevelSentenceBuilder,
	LevelStoryReading,
	LevelWordInvaders,
}

// LevelOrder is an ordered, duplicate-free list of levels.
type LevelOrder []LevelID

func (o LevelOrder) Index(level LevelID) int {
	for i, l := range o {
		if l == level {
			return i
		}
	}
	return -1
}

func (o LevelOrder) Contains(level LevelID) bool {
	return o.Index(level) >= 0
}

// First returns the entry level, or "" for an empty order.
func (o LevelOrder) First() LevelID {
	if len(o) == 0 {
		return ""
	}
	return o[0]
}

// Next returns the successor of level and whether one exists.
func (o LevelOrder) Next(level LevelID) (LevelID, bool) {
	i := o.Index(level)
	if i < 0 || i+1 >= len(o) {
		return "", false
	}
	return o[i+1], true
}

// ParseLevelOrder converts configured names into a LevelOrder, dropping duplicates.
func ParseLevelOrder(names []string) LevelOrder {
	seen := make(map[LevelID]bool, len(names))
	order := make(LevelOrder, 0, len(names))
	for _, n := range names {
		id := LevelID(n)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	return order
}
