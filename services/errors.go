package services

import "errors"

// Game session errors. Handlers map these onto HTTP status codes, so keep
// validation, not-found and domain-conflict cases distinct.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFull        = errors.New("session is full")
	ErrNotEnoughPlayers   = errors.New("need at least 2 players to start")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNoCurrentQuestion  = errors.New("no current question")
	ErrGameFinished       = errors.New("game is over")
	ErrAlreadyAnswered    = errors.New("answer already submitted")
	ErrEmptyPlayerName    = errors.New("player name is required")
	ErrPlayerNameTooLong  = errors.New("player name cannot exceed 50 characters")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
	ErrMissingSessionID   = errors.New("session id is required")
)

// Auth errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Word list errors.
var (
	ErrWordListNotFound   = errors.New("word list not found")
	ErrMissingTranslation = errors.New("each word must have a Hebrew translation")
)
