package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"skyhunt/internal/middleware"
	"skyhunt/internal/model"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type minigameRoutes struct {
	ms service.MinigameServiceI
}

func NewMinigameRoutes(handler *gin.RouterGroup, ms service.MinigameServiceI) {
	r := &minigameRoutes{ms: ms}
	h := handler.Group("/minigame")
	{
		h.GET("/:board_id", r.GetBoard)
		h.POST("/:board_id/stars/:star_id", r.FindStar)
		h.POST("/:board_id/claim", r.ClaimReward)
	}
}

type StarResponse struct {
	ID    int     `json:"id"`
	Top   float64 `json:"top"`
	Left  float64 `json:"left"`
	Found bool    `json:"found"`
}

type CouponResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	ObtainedAt  time.Time `json:"obtainedAt"`
}

type BoardResponse struct {
	BoardID  uuid.UUID       `json:"board_id"`
	State    string          `json:"state"`
	Found    int             `json:"found"`
	Total    int             `json:"total"`
	Notice   string          `json:"notice,omitempty"`
	CanClaim bool            `json:"can_claim"`
	Stars    []StarResponse  `json:"stars"`
	Reward   *CouponResponse `json:"reward,omitempty"`
}

type FindStarResponse struct {
	BoardResponse
	Changed bool `json:"changed"`
}

func newCouponResponse(c model.OwnedCoupon) CouponResponse {
	return CouponResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        string(c.Type),
		ObtainedAt:  c.ObtainedAt,
	}
}

func newBoardResponse(b model.BoardSnapshot) BoardResponse {
	stars := make([]StarResponse, len(b.Stars))
	for i, s := range b.Stars {
		stars[i] = StarResponse{
			ID:    s.ID,
			Top:   s.Top,
			Left:  s.Left,
			Found: s.Found,
		}
	}

	out := BoardResponse{
		BoardID:  b.ID,
		State:    b.State.String(),
		Found:    b.Found,
		Total:    len(b.Stars),
		Notice:   b.Notice,
		CanClaim: b.State == model.BoardBothFound,
		Stars:    stars,
	}

	if b.Reward != nil {
		reward := newCouponResponse(*b.Reward)
		out.Reward = &reward
	}

	return out
}

func boardParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	log := logger.Logger()

	profileID, ok := middleware.ProfileID(c)
	if !ok {
		log.Error("profile id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return uuid.Nil, uuid.Nil, false
	}

	boardID, err := uuid.Parse(c.Param("board_id"))
	if err != nil {
		log.Info("failed to parse board_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board_id"})
		return uuid.Nil, uuid.Nil, false
	}

	return profileID, boardID, true
}

func writeMinigameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
	case errors.Is(err, service.ErrStarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "star not found"})
	case errors.Is(err, service.ErrRewardNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "find both stars first"})
	case errors.Is(err, service.ErrRewardAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "reward already claimed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (r *minigameRoutes) GetBoard(c *gin.Context) {
	profileID, boardID, ok := boardParams(c)
	if !ok {
		return
	}

	board, err := r.ms.Board(profileID, boardID)
	if err != nil {
		logger.Logger().Info("failed to get board", zap.Error(err))
		writeMinigameError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(board))
}

func (r *minigameRoutes) FindStar(c *gin.Context) {
	log := logger.Logger()

	profileID, boardID, ok := boardParams(c)
	if !ok {
		return
	}

	starID, err := strconv.Atoi(c.Param("star_id"))
	if err != nil {
		log.Info("failed to parse star_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid star_id"})
		return
	}

	board, changed, err := r.ms.FindStar(profileID, boardID, starID)
	if err != nil {
		log.Info("failed to find star",
			zap.String("board_id", boardID.String()),
			zap.Int("star_id", starID),
			zap.Error(err))
		writeMinigameError(c, err)
		return
	}

	c.JSON(http.StatusOK, FindStarResponse{
		BoardResponse: newBoardResponse(board),
		Changed:       changed,
	})
}

func (r *minigameRoutes) ClaimReward(c *gin.Context) {
	log := logger.Logger()

	profileID, boardID, ok := boardParams(c)
	if !ok {
		return
	}

	board, err := r.ms.Claim(c.Request.Context(), profileID, boardID)
	if err != nil {
		log.Info("failed to claim reward",
			zap.String("board_id", boardID.String()),
			zap.Error(err))
		writeMinigameError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(board))
}
