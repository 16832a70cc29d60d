package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/presence"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/presentation/controller"
	userrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/persistence/repository/port"
)

// Deps carries the shared infrastructure the chat endpoints bind to.
type Deps struct {
	Pool     *pgxpool.Pool
	Buses    busrepo.BusRepository
	Users    userrepo.UserRepository
	Registry *realtime.Registry
	Router   *usecase.RouteMessageUseCase
	Crowd    controller.CrowdReporter
	Secret   []byte
}

// RegisterRoutes registers chat HTTP endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	getCtl := controller.NewGetMessagesController(d.Pool, d.Buses)
	sendCtl := controller.NewSendMessageController(d.Router)
	aiCtl := controller.NewAIResponseController(usecase.NewAIResponseUseCase(d.Buses, d.Router))
	markCtl := controller.NewMarkReadController(d.Pool, d.Buses)
	socketCtl := controller.NewChatSocketController(d.Registry, presence.NewManager(d.Registry, d.Buses), d.Router, d.Users, d.Crowd, d.Secret)

	authed := auth.Middleware(d.Secret)

	// GET /api/chat/ws -> websocket endpoint for realtime traffic
	g.GET("/chat/ws", socketCtl.Handle())

	// POST /api/chat/:busId/ai-response -> assistant reply, public access
	g.POST("/chat/:busId/ai-response", aiCtl.Handle())

	// GET /api/chat/:busId -> fetch chat history for a bus
	g.GET("/chat/:busId", authed, getCtl.Handle())

	// POST /api/chat/:busId -> send a message into the bus chat
	g.POST("/chat/:busId", authed, sendCtl.Handle())

	// GET /api/chat/:busId/mark-read -> flip unread flags for the caller
	g.GET("/chat/:busId/mark-read", authed, markCtl.Handle())
}
