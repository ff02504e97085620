package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hoopsight/internal/api"
	"hoopsight/internal/api/handlers"
	"hoopsight/pkg/metrics"
	"hoopsight/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server for the feature language.

Endpoints:
  GET  /health                      - Health check
  GET  /metrics                     - Prometheus metrics
  POST /api/features/validate       - Validate feature names
  POST /api/features/categorize     - Categorize feature values
  GET  /api/features/groups         - List semantic groups
  GET  /api/features/groups/{name}  - Enumerate one group
  GET  /api/features/enumerate      - Enumerate the full universe
  GET  /api/features/manifest       - Default training manifest
  GET  /api/catalog/stats           - List catalog stats
  GET  /api/catalog/stats/{name}    - Show one stat

Example:
  go run ./cmd/hoopsight api
  go run ./cmd/hoopsight api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hoopsight API Server ===")

	// 1. Build the language core
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	// Override port if flag is set
	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	rt.log.WithFields(map[string]interface{}{
		"port":    rt.cfg.Port,
		"env":     rt.cfg.Env,
		"catalog": rt.cfg.Catalog.Source,
		"stats":   rt.catalog.Len(),
	}).Info("Initializing API server")

	// 2. Connect to Redis (degrades to pass-through when disabled)
	redisClient, err := redis.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "hoopsight")
	limiter := redis.NewRateLimiter(redisClient, "hoopsight")

	// 3. Create metrics
	m := metrics.New("hoopsight")

	// 4. Create handlers
	featureHandler := handlers.NewFeatureHandler(rt.registry, rt.enum, cache, m, rt.log)
	catalogHandler := handlers.NewCatalogHandler(rt.catalog, rt.log)

	// 5. Create router
	router := api.NewRouter(featureHandler, catalogHandler, limiter, m, rt.log)

	// 6. Create server
	server := api.New(rt.cfg, rt.log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
