package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	queueport "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/queue/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	busHTTP "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/presentation/http"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/application/usecase"
	msgAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/persistence/repository/adapter"
	chatHTTP "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/presentation/http"
	detectionUC "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
	detectionHTTP "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/presentation/http"
	userrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/persistence/repository/port"
)

// Deps is everything the API surface needs, constructed once in main.
type Deps struct {
	Pool      *pgxpool.Pool
	Buses     busrepo.BusRepository
	Users     userrepo.UserRepository
	Registry  *realtime.Registry
	Vision    detectionUC.VisionService
	Queue     queueport.Client
	UploadDir string
	Secret    []byte
}

// RegisterRoutes mounts the whole API under /api plus the health probe.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	routeMessage := usecase.NewRouteMessageUseCase(
		msgAdapter.NewPgMessageRepository(d.Pool), d.Buses, d.Users, d.Registry,
	)
	crowd := detectionUC.NewReportCrowdUseCase(d.Buses, d.Registry)

	api := r.Group("/api")
	chatHTTP.RegisterRoutes(api, chatHTTP.Deps{
		Pool:     d.Pool,
		Buses:    d.Buses,
		Users:    d.Users,
		Registry: d.Registry,
		Router:   routeMessage,
		Crowd:    crowd,
		Secret:   d.Secret,
	})
	busHTTP.RegisterRoutes(api, d.Buses, d.Secret)
	detectionHTTP.RegisterRoutes(api, detectionHTTP.Deps{
		Buses:     d.Buses,
		Vision:    d.Vision,
		Pub:       d.Registry,
		Queue:     d.Queue,
		UploadDir: d.UploadDir,
		Secret:    d.Secret,
	})
}
