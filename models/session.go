package models

import (
	"time"
)

type SessionStatus string

const (
	StatusWaiting  SessionStatus = "waiting"
	StatusActive   SessionStatus = "active"
	StatusFinished SessionStatus = "finished"
)

type PlayerSlot string

const (
	SlotPlayer1 PlayerSlot = "player1"
	SlotPlayer2 PlayerSlot = "player2"
	SlotPlayer3 PlayerSlot = "player3"
)

// WinnerDraw is the winner value when two or more seated players tie at the
// maximum score.
const WinnerDraw = "draw"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Players maps the three fixed seats to player identifiers. An empty string
// means the seat is open. Player1 is always the creator.
type Players struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Player3 string `json:"player3"`
}

type PowerUps struct {
	FiftyFifty   int `json:"fiftyFifty"`
	ExtraTime    int `json:"extraTime"`
	DoublePoints int `json:"doublePoints"`
}

type PlayerState struct {
	Score          int        `json:"score"`
	IsReady        bool       `json:"isReady"`
	LastAnswerTime *time.Time `json:"lastAnswerTime"`
	PowerUps       PowerUps   `json:"powerUps"`
}

type QuestionResult struct {
	IsCorrect      bool   `json:"isCorrect"`
	AnswerTime     int64  `json:"answerTime"` // milliseconds since the timer started
	SelectedIndex  int    `json:"selectedIndex"`
	SpeedBonus     int    `json:"speedBonus"`
	SpeedBonusText string `json:"speedBonusText"`
}

type LastMove struct {
	Slot          PlayerSlot   `json:"slot"`
	Answer        QuestionType `json:"answer"`
	IsCorrect     bool         `json:"isCorrect"`
	SelectedIndex int          `json:"selectedIndex"`
	Timestamp     time.Time    `json:"timestamp"`
}

type ChatMessage struct {
	Slot   PlayerSlot `json:"slot"`
	Text   string     `json:"text"`
	SentAt time.Time  `json:"sentAt"`
}

// QuestionHistoryEntry records a question that was already asked in this
// session. Recording rounds mark Recorded so a later dictation round on the
// same sentence can double its time budget.
type QuestionHistoryEntry struct {
	Type     QuestionType `json:"type"`
	Word     string       `json:"word"`
	Sentence string       `json:"sentence,omitempty"`
	Recorded bool         `json:"recorded,omitempty"`
}

// GameSession is the full session document. The session store serializes the
// nested structures to JSON columns on one row per session.
type GameSession struct {
	ID              string                          `json:"id"`
	Status          SessionStatus                   `json:"status"`
	Difficulty      Difficulty                      `json:"difficulty"`
	CurrentRound    int                             `json:"currentRound"`
	MaxRounds       int                             `json:"maxRounds"`
	Players         Players                         `json:"players"`
	PlayerStates    map[PlayerSlot]*PlayerState     `json:"playerStates"`
	CurrentQuestion QuestionEnvelope                `json:"currentQuestion"`
	QuestionResults map[PlayerSlot]*QuestionResult  `json:"questionResults"`
	QuestionHistory []QuestionHistoryEntry          `json:"questionHistory"`
	ChatMessages    []ChatMessage                   `json:"chatMessages"`
	RevealedLetters []string                        `json:"revealedLetters"`
	LastMove        *LastMove                       `json:"lastMove"`
	TimerStartTime  *time.Time                      `json:"timerStartTime"`
	TimeLeft        int                             `json:"timeLeft"` // seconds budgeted for the round
	Winner          string                          `json:"winner,omitempty"`
	CreatedAt       time.Time                       `json:"createdAt"`
	UpdatedAt       time.Time                       `json:"updatedAt"`
}

// SeatedSlots returns the occupied seats in slot order.
func (s *GameSession) SeatedSlots() []PlayerSlot {
	slots := []PlayerSlot{}
	if s.Players.Player1 != "" {
		slots = append(slots, SlotPlayer1)
	}
	if s.Players.Player2 != "" {
		slots = append(slots, SlotPlayer2)
	}
	if s.Players.Player3 != "" {
		slots = append(slots, SlotPlayer3)
	}
	return slots
}

// SlotOf returns the seat a player occupies, or "" if the player is not in
// this session.
func (s *GameSession) SlotOf(playerID string) PlayerSlot {
	switch playerID {
	case "":
		return ""
	case s.Players.Player1:
		return SlotPlayer1
	case s.Players.Player2:
		return SlotPlayer2
	case s.Players.Player3:
		return SlotPlayer3
	}
	return ""
}

// GameSessionRecord is the persisted row shape. Nested structures are stored
// as JSON text; the session store owns the encode/decode boundary.
type GameSessionRecord struct {
	ID              string     `gorm:"primaryKey"`
	Status          string     `gorm:"not null;default:'waiting'"`
	Difficulty      string     `gorm:"not null"`
	CurrentRound    int        `gorm:"not null;default:0"`
	MaxRounds       int        `gorm:"not null;default:5"`
	Players         string     `gorm:"type:text;not null"`
	PlayerStates    string     `gorm:"type:text;not null"`
	CurrentQuestion string     `gorm:"type:text"`
	QuestionResults string     `gorm:"type:text"`
	QuestionHistory string     `gorm:"type:text"`
	ChatMessages    string     `gorm:"type:text"`
	RevealedLetters string     `gorm:"type:text"`
	LastMove        string     `gorm:"type:text"`
	TimerStartTime  *time.Time
	TimeLeft        int
	Winner          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (GameSessionRecord) TableName() string {
	return "game_sessions"
}
