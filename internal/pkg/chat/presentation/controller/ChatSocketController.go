package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/presence"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	userrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/persistence/repository/port"
)

// CrowdReporter applies a crowd reading pushed over the live connection.
type CrowdReporter interface {
	Report(ctx context.Context, busID string, count int, level string) error
}

// ChatSocketController owns the single websocket endpoint. A connection
// starts anonymous: it may subscribe to crowd updates right away, but chat
// frames require an authenticate frame first.
type ChatSocketController struct {
	registry        *realtime.Registry
	presence        *presence.Manager
	routeMessageUC  *usecase.RouteMessageUseCase
	users           userrepo.UserRepository
	crowd           CrowdReporter
	secret          []byte
	inflightTimeout time.Duration
}

func NewChatSocketController(registry *realtime.Registry, pres *presence.Manager, router *usecase.RouteMessageUseCase, users userrepo.UserRepository, crowd CrowdReporter, secret []byte) *ChatSocketController {
	return &ChatSocketController{
		registry:        registry,
		presence:        pres,
		routeMessageUC:  router,
		users:           users,
		crowd:           crowd,
		secret:          secret,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type inboundFrame struct {
	Type        string `json:"type"`
	Token       string `json:"token,omitempty"`
	BusID       string `json:"busId,omitempty"`
	UserName    string `json:"userName,omitempty"`
	Text        string `json:"text,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
	Count       int    `json:"count,omitempty"`
	CrowdLevel  string `json:"crowdLevel,omitempty"`
}

type ackFrame struct {
	Type  string `json:"type"`
	BusID string `json:"busId,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			return
		}

		conn := realtime.NewConnection(ws)
		ctl.registry.Attach(conn)
		defer func() {
			// Dirty disconnects are silent: no leave notice, just removal.
			ctl.registry.Detach(conn.ID)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "authenticate":
				ctl.handleAuthenticate(c, conn, frame)
			case "subscribe":
				ctl.handleSubscribe(conn, frame)
			case "unsubscribe":
				ctl.handleUnsubscribe(conn, frame)
			case "joinChat":
				ctl.handleJoinChat(c, conn, frame)
			case "leaveChat":
				ctl.handleLeaveChat(conn, frame)
			case "chatMessage":
				ctl.handleChatMessage(c, conn, frame)
			case "crowdUpdate":
				ctl.handleCrowdUpdate(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleAuthenticate(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	claims, err := auth.Parse(frame.Token, ctl.secret)
	if err != nil {
		ctl.replyError(conn, "unauthorized", "invalid token")
		return
	}
	ctl.registry.Authenticate(conn.ID, claims.UserID, claims.Role)

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()
	if err := ctl.users.TouchLastActive(ctx, claims.UserID); err != nil {
		log.Printf("chat: touch last active for %s: %v", claims.UserID, err)
	}

	if payload, err := json.Marshal(ackFrame{Type: "authenticated"}); err == nil {
		_ = conn.Send(payload)
	}
}

// Subscribe joins the bus detection room; no auth needed, crowd levels are
// public information.
func (ctl *ChatSocketController) handleSubscribe(conn *realtime.Connection, frame inboundFrame) {
	if frame.BusID == "" {
		ctl.replyError(conn, "bad_request", "busId is required")
		return
	}
	ctl.registry.Join(conn.ID, realtime.DetectionRoom(frame.BusID))
	if payload, err := json.Marshal(ackFrame{Type: "subscribed", BusID: frame.BusID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleUnsubscribe(conn *realtime.Connection, frame inboundFrame) {
	if frame.BusID == "" {
		ctl.replyError(conn, "bad_request", "busId is required")
		return
	}
	ctl.registry.Leave(conn.ID, realtime.DetectionRoom(frame.BusID))
	if payload, err := json.Marshal(ackFrame{Type: "unsubscribed", BusID: frame.BusID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleJoinChat(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.BusID == "" {
		ctl.replyError(conn, "bad_request", "busId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.presence.JoinChat(ctx, conn.ID, frame.BusID, frame.UserName); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) handleLeaveChat(conn *realtime.Connection, frame inboundFrame) {
	if frame.BusID == "" {
		ctl.replyError(conn, "bad_request", "busId is required")
		return
	}
	ctl.presence.LeaveChat(conn.ID, frame.BusID, frame.UserName)
}

func (ctl *ChatSocketController) handleChatMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if _, err := uuid.Parse(frame.BusID); err != nil {
		ctl.replyError(conn, "bad_request", "a valid busId is required")
		return
	}
	state, ok := ctl.registry.State(conn.ID)
	if !ok || !state.Authenticated {
		ctl.replyError(conn, "unauthorized", "authenticate before sending messages")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.routeMessageUC.Execute(ctx, usecase.RouteMessageInput{
		BusID:       frame.BusID,
		SenderID:    state.UserID,
		RecipientID: frame.RecipientID,
		Text:        frame.Text,
		MessageType: chat.MessageTypeText,
		SenderName:  frame.UserName,
		SenderRole:  state.Role,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	// No direct echo: the sender receives the message through its own room
	// membership, same frame as everyone else.
}

func (ctl *ChatSocketController) handleCrowdUpdate(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if _, err := uuid.Parse(frame.BusID); err != nil {
		ctl.replyError(conn, "bad_request", "a valid busId is required")
		return
	}
	state, ok := ctl.registry.State(conn.ID)
	if !ok || !state.Authenticated {
		ctl.replyError(conn, "unauthorized", "authenticate before reporting crowd levels")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.crowd.Report(ctx, frame.BusID, frame.Count, frame.CrowdLevel); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		ctl.replyError(conn, "not_found", "bus not found")
	case errors.Is(err, usecase.ErrValidation):
		ctl.replyError(conn, "bad_request", err.Error())
	default:
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
