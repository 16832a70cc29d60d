package http

import (
	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/presentation/controller"
)

// RegisterRoutes registers bus CRUD and public-link endpoints under the given
// router group.
func RegisterRoutes(g *gin.RouterGroup, buses busrepo.BusRepository, secret []byte) {
	createCtl := controller.NewCreateBusController(buses)
	listCtl := controller.NewListBusesController(buses, false)
	listOwnCtl := controller.NewListBusesController(buses, true)
	getCtl := controller.NewGetBusController(buses)
	updateCtl := controller.NewUpdateBusController(buses)
	deleteCtl := controller.NewDeleteBusController(buses)
	linkCtl := controller.NewPublicLinkController(buses)
	videoURLCtl := controller.NewUploadVideoURLController(buses)

	authed := auth.Middleware(secret)

	// GET /api/buses/public/:token -> resolve a shared read-only link
	g.GET("/buses/public/:token", linkCtl.HandleResolve())

	// GET /api/buses -> the whole fleet
	g.GET("/buses", authed, listCtl.Handle())

	// GET /api/buses/user/created -> only buses created by the caller
	g.GET("/buses/user/created", authed, listOwnCtl.Handle())

	// POST /api/buses -> register a bus
	g.POST("/buses", authed, createCtl.Handle())

	// GET /api/buses/:busId -> one bus
	g.GET("/buses/:busId", authed, getCtl.Handle())

	// PUT /api/buses/:busId -> partial update
	g.PUT("/buses/:busId", authed, updateCtl.Handle())

	// DELETE /api/buses/:busId -> remove a bus and its chat history
	g.DELETE("/buses/:busId", authed, deleteCtl.Handle())

	// POST /api/buses/:busId/public-link -> mint a fresh public token
	g.POST("/buses/:busId/public-link", authed, linkCtl.HandleGenerate())

	// POST /api/buses/:busId/upload-video -> record an external video reference
	g.POST("/buses/:busId/upload-video", authed, videoURLCtl.Handle())
}
