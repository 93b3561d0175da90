package models

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	QuestionMultipleChoice   QuestionType = "multiple-choice"
	QuestionSentenceChoice   QuestionType = "sentence-choice"
	QuestionRecording        QuestionType = "recording"
	QuestionSentenceScramble QuestionType = "sentence-scramble"
	QuestionDictation        QuestionType = "dictation"
)

// Question is the active round's payload. Each question type carries only
// the fields it needs; use QuestionEnvelope to (de)serialize one.
type Question interface {
	Type() QuestionType
}

type MultipleChoiceQuestion struct {
	Word                   string   `json:"word"`
	Definitions            []string `json:"definitions"`
	CorrectDefinitionIndex int      `json:"correct_definition_index"`
}

func (q *MultipleChoiceQuestion) Type() QuestionType { return QuestionMultipleChoice }

type SentenceChoiceQuestion struct {
	Word                 string   `json:"word"`
	Sentences            []string `json:"sentences"`
	CorrectSentenceIndex int      `json:"correct_sentence_index"`
}

func (q *SentenceChoiceQuestion) Type() QuestionType { return QuestionSentenceChoice }

type RecordingQuestion struct {
	Word     string `json:"word"`
	Sentence string `json:"sentence"`
}

func (q *RecordingQuestion) Type() QuestionType { return QuestionRecording }

type SentenceScrambleQuestion struct {
	Word      string   `json:"word"`
	Sentence  string   `json:"sentence"`
	Scrambled []string `json:"scrambled"`
}

func (q *SentenceScrambleQuestion) Type() QuestionType { return QuestionSentenceScramble }

type DictationQuestion struct {
	Word        string `json:"word"`
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
	// WasRecorded is set when the sentence was already recorded aloud in an
	// earlier round; such dictation rounds get a doubled time budget.
	WasRecorded bool `json:"was_recorded"`
}

func (q *DictationQuestion) Type() QuestionType { return QuestionDictation }

// QuestionEnvelope wraps a Question so it can round-trip through JSON with a
// type tag. A nil inner question marshals as null.
type QuestionEnvelope struct {
	Question Question
}

type questionDoc struct {
	Type QuestionType    `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (e QuestionEnvelope) MarshalJSON() ([]byte, error) {
	if e.Question == nil {
		return []byte("null"), nil
	}

	data, err := json.Marshal(e.Question)
	if err != nil {
		return nil, err
	}

	return json.Marshal(questionDoc{Type: e.Question.Type(), Data: data})
}

func (e *QuestionEnvelope) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.Question = nil
		return nil
	}

	var doc questionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var q Question
	switch doc.Type {
	case QuestionMultipleChoice:
		q = &MultipleChoiceQuestion{}
	case QuestionSentenceChoice:
		q = &SentenceChoiceQuestion{}
	case QuestionRecording:
		q = &RecordingQuestion{}
	case QuestionSentenceScramble:
		q = &SentenceScrambleQuestion{}
	case QuestionDictation:
		q = &DictationQuestion{}
	default:
		return fmt.Errorf("unknown question type %q", doc.Type)
	}

	if err := json.Unmarshal(doc.Data, q); err != nil {
		return err
	}

	e.Question = q
	return nil
}
