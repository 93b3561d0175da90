package handlers

import (
	"errors"
	"log"
	"net/http"

	"wordclash/models"
	"wordclash/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// GameCommandRequest is the single-endpoint command envelope; the action
// field selects the command and the rest are its per-command inputs.
type GameCommandRequest struct {
	Action        string `json:"action" binding:"required"`
	SessionID     string `json:"session_id"`
	PlayerID      string `json:"player_id"`
	Difficulty    string `json:"difficulty"`
	Answer        string `json:"answer"`
	SelectedIndex *int   `json:"selected_index"`
	AnswerValue   string `json:"answer_value"`
}

func (h *GameHandler) HandleCommand(c *gin.Context) {
	var req GameCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	var session *models.GameSession
	var err error

	switch req.Action {
	case "create":
		session, err = h.gameService.CreateSession(ctx, models.Difficulty(req.Difficulty), req.PlayerID)
	case "join":
		session, err = h.gameService.JoinSession(ctx, req.SessionID, req.PlayerID)
	case "get":
		session, err = h.gameService.GetSession(ctx, req.SessionID)
	case "start":
		session, err = h.gameService.StartSession(ctx, req.SessionID)
	case "move":
		selectedIndex := -1
		if req.SelectedIndex != nil {
			selectedIndex = *req.SelectedIndex
		}
		session, err = h.gameService.SubmitMove(ctx, req.SessionID, req.PlayerID,
			models.QuestionType(req.Answer), selectedIndex, req.AnswerValue)
	case "nextRound":
		session, err = h.gameService.NextRound(ctx, req.SessionID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if err != nil {
		respondGameError(c, err)
		return
	}

	status := http.StatusOK
	if req.Action == "create" {
		status = http.StatusCreated
	}
	c.JSON(status, session)
}

// GetSession is the read-only surface: the session id arrives as a query
// parameter and the response is the same document the get command returns.
func (h *GameHandler) GetSession(c *gin.Context) {
	sessionID := c.Query("sessionId")

	session, err := h.gameService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// respondGameError maps domain errors to status codes; anything unexpected
// is logged in full and surfaced as a generic internal error.
func respondGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMissingSessionID),
		errors.Is(err, services.ErrEmptyPlayerName),
		errors.Is(err, services.ErrPlayerNameTooLong),
		errors.Is(err, services.ErrInvalidDifficulty),
		errors.Is(err, services.ErrNoCurrentQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSessionFull),
		errors.Is(err, services.ErrNotEnoughPlayers),
		errors.Is(err, services.ErrGameFinished),
		errors.Is(err, services.ErrAlreadyAnswered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Game command failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
