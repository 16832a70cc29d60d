package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/cmd/api/router"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	cacheAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/cache/adapter"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/database"
	queueAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/queue/adapter"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	buscache "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/cache"
	busAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/adapter"
	busrepo "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/task"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/vision"
	userAdapter "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/persistence/repository/adapter"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	var buses busrepo.BusRepository = busAdapter.NewPgBusRepository(pool)
	if cache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: redis unavailable, bus reads go uncached: %v", err)
	} else {
		defer cache.Close()
		buses = buscache.NewCachedBusRepository(buses, cache, envSeconds("BUS_CACHE_TTL_SECONDS", 30*time.Second))
	}
	users := userAdapter.NewPgUserRepository(pool)

	visionClient, err := vision.NewClientFromEnv()
	if err != nil {
		log.Fatalf("failed to configure vision client: %v", err)
	}

	registry := realtime.NewRegistry()
	defer registry.Close()

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to connect to task queue: %v", err)
	}
	defer queueClient.Close()

	// In-process worker consumes the detection queue so a single deployment
	// handles both the API and video submissions.
	workerCtx, stopWorker := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopWorker()

	queueServer, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to start task worker: %v", err)
	}
	videoWorker := task.NewProcessVideoWorker(buses, visionClient, registry)
	queueServer.Register(task.ProcessVideoTaskType, videoWorker.Handle)
	go func() {
		if err := queueServer.Run(workerCtx); err != nil {
			log.Printf("task worker stopped: %v", err)
		}
	}()

	r := gin.Default()
	router.RegisterRoutes(r, router.Deps{
		Pool:      pool,
		Buses:     buses,
		Users:     users,
		Registry:  registry,
		Vision:    visionClient,
		Queue:     queueClient,
		UploadDir: uploadDir(),
		Secret:    auth.Secret(),
	})

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(listenAddr()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func listenAddr() string {
	if addr := os.Getenv("ADDR"); addr != "" {
		return addr
	}
	return ":5000"
}

func envSeconds(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}
