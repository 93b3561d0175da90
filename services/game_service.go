package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"wordclash/models"

	"github.com/google/uuid"
)

const (
	defaultMaxRounds = 5
	baseRoundSeconds = 20

	correctPoints    = 3
	incorrectPenalty = 2
)

// QuestionGenerator is the question-bank collaborator. It receives the
// session's accumulated question history so generation can avoid repeats and
// detect previously recorded sentences.
type QuestionGenerator interface {
	Generate(difficulty models.Difficulty, round int, history []models.QuestionHistoryEntry) (models.Question, error)
}

// GameService implements the Word Clash session lifecycle: create, join,
// get, start, move, nextRound. Every command reloads the session set from
// the store, mutates one session and writes it back; concurrent commands on
// the same session are last-write-wins.
type GameService struct {
	store     SessionStore
	questions QuestionGenerator
}

func NewGameService(store SessionStore, questions QuestionGenerator) *GameService {
	return &GameService{
		store:     store,
		questions: questions,
	}
}

var playerNameSanitizer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")

// SanitizePlayerName strips markup-significant characters and enforces the
// non-empty, max-50-characters rule.
func SanitizePlayerName(raw string) (string, error) {
	name := strings.TrimSpace(playerNameSanitizer.Replace(raw))
	if name == "" {
		return "", ErrEmptyPlayerName
	}
	if utf8.RuneCountInString(name) > 50 {
		return "", ErrPlayerNameTooLong
	}
	return name, nil
}

func (s *GameService) CreateSession(ctx context.Context, difficulty models.Difficulty, playerName string) (*models.GameSession, error) {
	name, err := SanitizePlayerName(playerName)
	if err != nil {
		return nil, err
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}

	question, err := s.questions.Generate(difficulty, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	now := time.Now()
	session := &models.GameSession{
		ID:           uuid.NewString(),
		Status:       models.StatusWaiting,
		Difficulty:   difficulty,
		CurrentRound: 0,
		MaxRounds:    defaultMaxRounds,
		Players:      models.Players{Player1: name},
		PlayerStates: map[models.PlayerSlot]*models.PlayerState{
			models.SlotPlayer1: {},
			models.SlotPlayer2: {},
			models.SlotPlayer3: {},
		},
		CurrentQuestion: models.QuestionEnvelope{Question: question},
		QuestionResults: map[models.PlayerSlot]*models.QuestionResult{},
		QuestionHistory: []models.QuestionHistoryEntry{historyEntryFor(question)},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Do not advertise a session that did not durably exist.
	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// JoinSession seats a player in the first open slot (player2, then player3).
// Joining is idempotent for a player who is already seated and never starts
// the game.
func (s *GameService) JoinSession(ctx context.Context, sessionID, playerName string) (*models.GameSession, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	name, err := SanitizePlayerName(playerName)
	if err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusFinished {
		return nil, ErrGameFinished
	}

	if session.SlotOf(name) != "" {
		return session, nil
	}

	var slot models.PlayerSlot
	switch {
	case session.Players.Player2 == "":
		session.Players.Player2 = name
		slot = models.SlotPlayer2
	case session.Players.Player3 == "":
		session.Players.Player3 = name
		slot = models.SlotPlayer3
	default:
		return nil, ErrSessionFull
	}

	ensurePlayerState(session, slot).IsReady = false
	session.UpdatedAt = time.Now()

	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *GameService) GetSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// StartSession activates a session with at least 2 seated players, marks
// everyone ready and arms the first round's timer.
func (s *GameService) StartSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusFinished {
		return nil, ErrGameFinished
	}

	seated := session.SeatedSlots()
	if len(seated) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	for _, slot := range seated {
		ensurePlayerState(session, slot).IsReady = true
	}

	question, err := s.questions.Generate(session.Difficulty, session.CurrentRound, session.QuestionHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}
	session.CurrentQuestion = models.QuestionEnvelope{Question: question}
	session.QuestionHistory = append(session.QuestionHistory, historyEntryFor(question))

	now := time.Now()
	session.Status = models.StatusActive
	session.TimerStartTime = &now
	session.TimeLeft = roundBudget(question)
	session.QuestionResults = map[models.PlayerSlot]*models.QuestionResult{}
	session.UpdatedAt = now

	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// SubmitMove resolves one player's answer for the current round: determines
// correctness per question type, applies scoring with the speed bonus, and
// finishes the game when the final round's last answer lands.
func (s *GameService) SubmitMove(ctx context.Context, sessionID, playerName string, answer models.QuestionType, selectedIndex int, answerValue string) (*models.GameSession, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	name, err := SanitizePlayerName(playerName)
	if err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusFinished {
		return nil, ErrGameFinished
	}

	question := session.CurrentQuestion.Question
	if question == nil {
		return nil, ErrNoCurrentQuestion
	}

	slot := session.SlotOf(name)
	if slot == "" {
		return nil, ErrPlayerNotFound
	}
	if _, answered := session.QuestionResults[slot]; answered {
		return nil, ErrAlreadyAnswered
	}

	if selectedIndex < 0 {
		selectedIndex = -1
	}

	isCorrect := false
	if answer != question.Type() {
		// A mismatched answer tag resolves as incorrect rather than wedging
		// the round on a malformed client payload.
		log.Printf("Answer type %q does not match question type %q in session %s, treating as incorrect",
			answer, question.Type(), session.ID)
	} else {
		switch q := question.(type) {
		case *models.MultipleChoiceQuestion:
			isCorrect = selectedIndex >= 0 && q.CorrectDefinitionIndex >= 0 && selectedIndex == q.CorrectDefinitionIndex
		case *models.SentenceChoiceQuestion:
			isCorrect = selectedIndex >= 0 && q.CorrectSentenceIndex >= 0 && selectedIndex == q.CorrectSentenceIndex
		case *models.RecordingQuestion:
			// No server-side way to verify a recorded utterance; the client
			// self-reports. Remember the sentence so a later dictation round
			// on it gets the doubled budget.
			isCorrect = answerValue == "correct"
			session.QuestionHistory = append(session.QuestionHistory, models.QuestionHistoryEntry{
				Type:     models.QuestionRecording,
				Word:     q.Word,
				Sentence: q.Sentence,
				Recorded: true,
			})
		default:
			isCorrect = answerValue == "correct"
		}
	}

	now := time.Now()
	elapsedSeconds := 0
	answerTimeMs := int64(0)
	if session.TimerStartTime != nil {
		elapsedSeconds = int(now.Sub(*session.TimerStartTime).Seconds())
		answerTimeMs = now.Sub(*session.TimerStartTime).Milliseconds()
	}

	state := ensurePlayerState(session, slot)
	bonus := 0
	bonusText := ""
	if isCorrect {
		bonus, bonusText = speedBonus(elapsedSeconds)
		state.Score += correctPoints + bonus
	} else {
		state.Score -= incorrectPenalty
		if state.Score < 0 {
			state.Score = 0
		}
	}
	state.LastAnswerTime = &now

	session.QuestionResults[slot] = &models.QuestionResult{
		IsCorrect:      isCorrect,
		AnswerTime:     answerTimeMs,
		SelectedIndex:  selectedIndex,
		SpeedBonus:     bonus,
		SpeedBonusText: bonusText,
	}
	session.LastMove = &models.LastMove{
		Slot:          slot,
		Answer:        answer,
		IsCorrect:     isCorrect,
		SelectedIndex: selectedIndex,
		Timestamp:     now,
	}

	// The final round finishes the game once every seated player answered.
	// Earlier rounds advance only through the nextRound command.
	if session.CurrentRound == session.MaxRounds-1 && allSeatedAnswered(session) {
		session.Status = models.StatusFinished
		session.Winner = computeWinner(session)
	}

	session.UpdatedAt = now
	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// NextRound sweeps overdue rounds first (players who never answered inside
// the time budget take the incorrect-answer penalty), then advances to a
// fresh round or finishes the game after the last one.
func (s *GameService) NextRound(ctx context.Context, sessionID string) (*models.GameSession, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.StatusFinished {
		return nil, ErrGameFinished
	}

	now := time.Now()

	if session.Status == models.StatusActive && session.CurrentQuestion.Question != nil && session.TimerStartTime != nil {
		elapsed := now.Sub(*session.TimerStartTime).Seconds()
		remaining := int(math.Floor(float64(session.TimeLeft) - elapsed))
		if remaining < 0 {
			remaining = 0
		}
		if remaining <= 0 {
			swept := false
			for _, slot := range session.SeatedSlots() {
				if _, answered := session.QuestionResults[slot]; answered {
					continue
				}
				state := ensurePlayerState(session, slot)
				state.Score -= incorrectPenalty
				if state.Score < 0 {
					state.Score = 0
				}
				session.QuestionResults[slot] = &models.QuestionResult{
					IsCorrect:     false,
					AnswerTime:    int64(session.TimeLeft) * 1000,
					SelectedIndex: -1,
				}
				swept = true
			}
			// Sweep effects persist even if the advance below fails.
			if swept {
				session.UpdatedAt = now
				if err := s.store.Upsert(ctx, session); err != nil {
					return nil, fmt.Errorf("failed to save session: %w", err)
				}
			}
		}
	}

	if session.CurrentRound < session.MaxRounds-1 {
		session.CurrentRound++

		question, err := s.questions.Generate(session.Difficulty, session.CurrentRound, session.QuestionHistory)
		if err != nil {
			return nil, fmt.Errorf("failed to generate question: %w", err)
		}
		session.CurrentQuestion = models.QuestionEnvelope{Question: question}
		session.QuestionHistory = append(session.QuestionHistory, historyEntryFor(question))

		session.LastMove = nil
		session.QuestionResults = map[models.PlayerSlot]*models.QuestionResult{}
		for _, slot := range session.SeatedSlots() {
			ensurePlayerState(session, slot).LastAnswerTime = nil
		}
		session.TimerStartTime = &now
		session.TimeLeft = roundBudget(question)
	} else {
		session.Status = models.StatusFinished
		session.Winner = computeWinner(session)
	}

	session.UpdatedAt = now
	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *GameService) loadSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	sessions, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	session, exists := sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func ensurePlayerState(session *models.GameSession, slot models.PlayerSlot) *models.PlayerState {
	if session.PlayerStates == nil {
		session.PlayerStates = map[models.PlayerSlot]*models.PlayerState{}
	}
	state, exists := session.PlayerStates[slot]
	if !exists || state == nil {
		state = &models.PlayerState{}
		session.PlayerStates[slot] = state
	}
	return state
}

// roundBudget is 20 seconds, doubled for a dictation question whose sentence
// was already recorded aloud earlier in the session.
func roundBudget(question models.Question) int {
	if d, ok := question.(*models.DictationQuestion); ok && d.WasRecorded {
		return baseRoundSeconds * 2
	}
	return baseRoundSeconds
}

func speedBonus(elapsedSeconds int) (int, string) {
	switch {
	case elapsedSeconds <= 5:
		return 3, "מהיר כברק! +3"
	case elapsedSeconds <= 10:
		return 2, "תשובה זריזה! +2"
	case elapsedSeconds <= 16:
		return 1, "בונוס מהירות +1"
	}
	return 0, ""
}

func allSeatedAnswered(session *models.GameSession) bool {
	for _, slot := range session.SeatedSlots() {
		if _, answered := session.QuestionResults[slot]; !answered {
			return false
		}
	}
	return true
}

// computeWinner returns the seated slot holding the strict maximum score, or
// "draw" when two or more seated slots tie at the top.
func computeWinner(session *models.GameSession) string {
	best := -1
	winner := ""
	tie := false
	for _, slot := range session.SeatedSlots() {
		score := 0
		if state := session.PlayerStates[slot]; state != nil {
			score = state.Score
		}
		if score > best {
			best = score
			winner = string(slot)
			tie = false
		} else if score == best {
			tie = true
		}
	}
	if tie {
		return models.WinnerDraw
	}
	return winner
}

func historyEntryFor(question models.Question) models.QuestionHistoryEntry {
	entry := models.QuestionHistoryEntry{Type: question.Type()}
	switch q := question.(type) {
	case *models.MultipleChoiceQuestion:
		entry.Word = q.Word
	case *models.SentenceChoiceQuestion:
		entry.Word = q.Word
	case *models.RecordingQuestion:
		entry.Word = q.Word
		entry.Sentence = q.Sentence
	case *models.SentenceScrambleQuestion:
		entry.Word = q.Word
		entry.Sentence = q.Sentence
	case *models.DictationQuestion:
		entry.Word = q.Word
		entry.Sentence = q.Sentence
	}
	return entry
}
