package services

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"wordclash/models"
)

// QuestionBank generates the per-round question payload. It takes the
// session's accumulated question history so it avoids repeating words and so
// dictation rounds can detect a sentence that was already recorded aloud.
type QuestionBank struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewQuestionBank() *QuestionBank {
	return &QuestionBank{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var questionTypes = []models.QuestionType{
	models.QuestionMultipleChoice,
	models.QuestionSentenceChoice,
	models.QuestionRecording,
	models.QuestionSentenceScramble,
	models.QuestionDictation,
}

func (b *QuestionBank) Generate(difficulty models.Difficulty, round int, history []models.QuestionHistoryEntry) (models.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool := wordsForDifficulty(string(difficulty))
	if len(pool) == 0 {
		return nil, errors.New("empty word pool")
	}

	entry := b.pickEntry(pool, history)
	questionType := questionTypes[b.rng.Intn(len(questionTypes))]

	switch questionType {
	case models.QuestionMultipleChoice:
		definitions, correct := b.buildOptions(pool, entry, func(e vocabEntry) string { return e.Hebrew })
		return &models.MultipleChoiceQuestion{
			Word:                   entry.English,
			Definitions:            definitions,
			CorrectDefinitionIndex: correct,
		}, nil

	case models.QuestionSentenceChoice:
		sentences, correct := b.buildOptions(pool, entry, func(e vocabEntry) string { return e.Sentence })
		return &models.SentenceChoiceQuestion{
			Word:                 entry.English,
			Sentences:            sentences,
			CorrectSentenceIndex: correct,
		}, nil

	case models.QuestionRecording:
		return &models.RecordingQuestion{
			Word:     entry.English,
			Sentence: entry.Sentence,
		}, nil

	case models.QuestionSentenceScramble:
		return &models.SentenceScrambleQuestion{
			Word:      entry.English,
			Sentence:  entry.Sentence,
			Scrambled: b.scramble(entry.Sentence),
		}, nil

	default: // dictation
		// Prefer a sentence the players already recorded aloud: dictating a
		// sentence you spoke yourself is the harder exercise, and it earns
		// the doubled time budget.
		if recorded := recordedEntries(history); len(recorded) > 0 {
			h := recorded[b.rng.Intn(len(recorded))]
			return &models.DictationQuestion{
				Word:        h.Word,
				Sentence:    h.Sentence,
				Translation: translationFor(pool, h.Word),
				WasRecorded: true,
			}, nil
		}
		return &models.DictationQuestion{
			Word:        entry.English,
			Sentence:    entry.Sentence,
			Translation: entry.Hebrew,
		}, nil
	}
}

// pickEntry picks a word not asked yet this session, falling back to the
// whole pool once every word has been used.
func (b *QuestionBank) pickEntry(pool []vocabEntry, history []models.QuestionHistoryEntry) vocabEntry {
	asked := make(map[string]bool, len(history))
	for _, h := range history {
		asked[h.Word] = true
	}

	candidates := make([]vocabEntry, 0, len(pool))
	for _, e := range pool {
		if !asked[e.English] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	return candidates[b.rng.Intn(len(candidates))]
}

// buildOptions returns four options (the correct one plus three distractors
// from the same tier) in shuffled order, and the correct option's index.
func (b *QuestionBank) buildOptions(pool []vocabEntry, entry vocabEntry, extract func(vocabEntry) string) ([]string, int) {
	options := []string{extract(entry)}
	perm := b.rng.Perm(len(pool))
	for _, i := range perm {
		if len(options) == 4 {
			break
		}
		if pool[i].English == entry.English {
			continue
		}
		options = append(options, extract(pool[i]))
	}

	b.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, opt := range options {
		if opt == extract(entry) {
			correct = i
			break
		}
	}
	return options, correct
}

func (b *QuestionBank) scramble(sentence string) []string {
	words := strings.Fields(sentence)
	scrambled := make([]string, len(words))
	copy(scrambled, words)
	b.rng.Shuffle(len(scrambled), func(i, j int) {
		scrambled[i], scrambled[j] = scrambled[j], scrambled[i]
	})
	return scrambled
}

func recordedEntries(history []models.QuestionHistoryEntry) []models.QuestionHistoryEntry {
	recorded := []models.QuestionHistoryEntry{}
	for _, h := range history {
		if h.Recorded && h.Sentence != "" {
			recorded = append(recorded, h)
		}
	}
	return recorded
}

func translationFor(pool []vocabEntry, english string) string {
	for _, e := range pool {
		if e.English == english {
			return e.Hebrew
		}
	}
	return ""
}
