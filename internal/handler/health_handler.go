package handler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ictak-go-api/internal/config"
	"github.com/noah-isme/ictak-go-api/internal/database"
)

// StoreProbe reports document store connectivity.
type StoreProbe interface {
	Backend() database.Backend
	Check(ctx context.Context) database.State
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	Timestamp     time.Time           `json:"timestamp"`
	Environment   string              `json:"environment"`
	Server        ServerHealth        `json:"server"`
	Database      DatabaseHealth      `json:"database"`
	Configuration ConfigurationHealth `json:"configuration"`
	Routes        map[string][]string `json:"routes"`
}

// ServerHealth describes the running process.
type ServerHealth struct {
	Status    string       `json:"status"`
	Port      string       `json:"port"`
	Uptime    int64        `json:"uptime"`
	Memory    MemoryHealth `json:"memory"`
	GoVersion string       `json:"goVersion"`
	Platform  string       `json:"platform"`
}

// MemoryHealth reports heap usage in megabytes.
type MemoryHealth struct {
	Used  string `json:"used"`
	Total string `json:"total"`
}

// DatabaseHealth reports the document store state.
type DatabaseHealth struct {
	Status     string `json:"status"`
	Name       string `json:"name"`
	Backend    string `json:"backend"`
	ReadyState string `json:"readyState"`
}

// ConfigurationHealth says which settings are present without revealing them.
type ConfigurationHealth struct {
	JWTConfigured      bool     `json:"jwtConfigured"`
	DatabaseConfigured bool     `json:"databaseConfigured"`
	CacheConfigured    bool     `json:"cacheConfigured"`
	StorageConfigured  bool     `json:"storageConfigured"`
	CORSOrigins        []string `json:"corsOrigins"`
}

// HealthHandler serves /api/health.
type HealthHandler struct {
	cfg     config.Config
	store   StoreProbe
	started time.Time
}

// NewHealthHandler builds a health handler; uptime counts from the call.
func NewHealthHandler(cfg config.Config, store StoreProbe) *HealthHandler {
	return &HealthHandler{cfg: cfg, store: store, started: time.Now()}
}

// Check reports process and store health. It always answers 200 so the process stays
// observable while the store is down.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	state := database.StateDisconnected
	backend := "unknown"
	if h.store != nil {
		state = h.store.Check(c.UserContext())
		backend = h.store.Backend().String()
	}

	status := "disconnected"
	if state == database.StateConnected {
		status = "connected"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.Status(fiber.StatusOK).JSON(HealthResponse{
		Success:     true,
		Message:     "ICTAK Backend Server is running",
		Timestamp:   time.Now().UTC(),
		Environment: h.cfg.AppEnv,
		Server: ServerHealth{
			Status: "online",
			Port:   h.cfg.AppPort,
			Uptime: int64(time.Since(h.started).Seconds()),
			Memory: MemoryHealth{
				Used:  megabytes(mem.HeapAlloc),
				Total: megabytes(mem.HeapSys),
			},
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS,
		},
		Database: DatabaseHealth{
			Status:     status,
			Name:       h.cfg.DatabaseName,
			Backend:    backend,
			ReadyState: state.String(),
		},
		Configuration: ConfigurationHealth{
			JWTConfigured:      h.cfg.JWTSecret != "",
			DatabaseConfigured: h.cfg.DatabaseURL != "",
			CacheConfigured:    h.cfg.RedisURL != "",
			StorageConfigured:  h.cfg.CloudinaryEnabled(),
			CORSOrigins:        h.cfg.AllowedOrigins,
		},
		Routes: routeIndex(),
	})
}

func megabytes(bytes uint64) string {
	return fmt.Sprintf("%d MB", bytes/1024/1024)
}
