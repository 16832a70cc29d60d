package http

import (
	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	queueport "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/queue/port"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/task"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/presentation/controller"
)

// Deps carries the shared infrastructure the detection endpoints bind to.
type Deps struct {
	Buses     busrepo.BusRepository
	Vision    usecase.VisionService
	Pub       usecase.Publisher
	Queue     queueport.Client
	UploadDir string
	Secret    []byte
}

// RegisterRoutes registers the detection pipeline endpoints under the given
// router group. All of them are private.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	monitorCtl := controller.NewMonitoringController(usecase.NewMonitoringUseCase(d.Buses, d.Pub))
	frameCtl := controller.NewProcessFrameController(usecase.NewProcessFrameUseCase(d.Buses, d.Vision, d.Pub))
	videoCtl := controller.NewSubmitVideoController(usecase.NewSubmitVideoUseCase(d.Buses, d.Queue, task.ProcessVideoTaskType), d.UploadDir)
	statusCtl := controller.NewVideoStatusController(usecase.NewVideoStatusUseCase(d.Buses, d.Vision, d.Pub))

	authed := auth.Middleware(d.Secret)

	// POST /api/detection/start/:busId -> begin live monitoring
	g.POST("/detection/start/:busId", authed, monitorCtl.HandleStart())

	// POST /api/detection/stop/:busId -> end live monitoring
	g.POST("/detection/stop/:busId", authed, monitorCtl.HandleStop())

	// POST /api/detection/process/:busId -> run one frame through detection
	g.POST("/detection/process/:busId", authed, frameCtl.Handle())

	// POST /api/detection/process-video/:busId -> queue a video for analysis
	g.POST("/detection/process-video/:busId", authed, videoCtl.Handle())

	// GET /api/detection/video-status/:busId -> poll video progress
	g.GET("/detection/video-status/:busId", authed, statusCtl.Handle())
}
