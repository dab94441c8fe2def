package api

import (
	"errors"
	"net/http"

	"skyhunt/internal/middleware"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	MessageBoardState = "board_state"
	MessageStarFound  = "star_found"
	MessageClaim      = "claim"
	MessageReward     = "reward"
	MessageError      = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type inboundMessage struct {
	Type    string `json:"type"`
	Payload struct {
		StarID int `json:"star_id"`
	} `json:"payload"`
}

type minigameSocket struct {
	ss        service.SessionServiceI
	ms        service.MinigameServiceI
	conn      *websocket.Conn
	profileID uuid.UUID
	boardID   uuid.UUID
	log       *zap.Logger
}

type wsRoutes struct {
	ss service.SessionServiceI
	ms service.MinigameServiceI
}

func NewWSRoutes(handler *gin.RouterGroup, ss service.SessionServiceI, ms service.MinigameServiceI) {
	r := &wsRoutes{ss: ss, ms: ms}
	h := handler.Group("/ws")

	h.GET("/minigame/:board_id", r.handleWebSocket)
}

// handleWebSocket drives the board over a socket. It accepts board_state,
// star_found and claim messages and answers each with board_state, reward or
// error. The session flag is checked again before every board change, so a
// socket opened before logout is closed on its next move.
func (r *wsRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	profileID, ok := middleware.ProfileID(c)
	if !ok {
		log.Error("profile id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	boardID, err := uuid.Parse(c.Param("board_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board_id"})
		return
	}

	if _, err := r.ms.Board(profileID, boardID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &minigameSocket{
		ss:        r.ss,
		ms:        r.ms,
		conn:      conn,
		profileID: profileID,
		boardID:   boardID,
		log:       log.With(zap.String("board_id", boardID.String())),
	}
	s.loop(c)
}

func (s *minigameSocket) loop(c *gin.Context) {
	defer s.conn.Close()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info("websocket unexpected close", zap.Error(err))
			}
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(msg, &in); err != nil {
			s.sendError("invalid message")
			continue
		}

		if in.Type == MessageStarFound || in.Type == MessageClaim {
			if !s.loggedIn(c) {
				s.sendError("login required")
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "logged out"))
				return
			}
		}

		switch in.Type {
		case MessageBoardState:
			board, err := s.ms.Board(s.profileID, s.boardID)
			if err != nil {
				s.sendError(errorText(err))
				continue
			}
			s.send(Message{Type: MessageBoardState, Payload: newBoardResponse(board)})

		case MessageStarFound:
			board, _, err := s.ms.FindStar(s.profileID, s.boardID, in.Payload.StarID)
			if err != nil {
				s.sendError(errorText(err))
				continue
			}
			s.send(Message{Type: MessageBoardState, Payload: newBoardResponse(board)})

		case MessageClaim:
			board, err := s.ms.Claim(c.Request.Context(), s.profileID, s.boardID)
			if err != nil {
				s.sendError(errorText(err))
				continue
			}
			s.send(Message{Type: MessageReward, Payload: newBoardResponse(board)})

		default:
			s.sendError("unknown message type")
		}
	}
}

func (s *minigameSocket) loggedIn(c *gin.Context) bool {
	loggedIn, err := s.ss.IsLoggedIn(c.Request.Context(), s.profileID)
	if err != nil {
		s.log.Error("failed to check session", zap.Error(err))
		return false
	}
	return loggedIn
}

func errorText(err error) string {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		return "board not found"
	case errors.Is(err, service.ErrStarNotFound):
		return "star not found"
	case errors.Is(err, service.ErrRewardNotReady):
		return "find both stars first"
	case errors.Is(err, service.ErrRewardAlreadyClaimed):
		return "reward already claimed"
	default:
		return "internal server error"
	}
}

func (s *minigameSocket) sendError(message string) {
	s.send(Message{
		Type: MessageError,
		Payload: map[string]any{
			"message": message,
		},
	})
}

func (s *minigameSocket) send(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		s.log.Error("failed to marshal message", zap.String("type", m.Type), zap.Error(err))
		return
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Error("failed to send message", zap.String("type", m.Type), zap.Error(err))
	}
}
