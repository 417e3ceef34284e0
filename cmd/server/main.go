package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/event"
	"github.com/fekuna/omnipos-inventory-service/internal/router"
	"github.com/fekuna/omnipos-inventory-service/migrations"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/middleware"
	"github.com/jmoiron/sqlx"

	bomH "github.com/fekuna/omnipos-inventory-service/internal/bom/handler"
	bomRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/bom/repository"
	bomUCPkg "github.com/fekuna/omnipos-inventory-service/internal/bom/usecase"

	partH "github.com/fekuna/omnipos-inventory-service/internal/part/handler"
	partRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	partUCPkg "github.com/fekuna/omnipos-inventory-service/internal/part/usecase"

	poH "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/handler"
	poRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/repository"
	poUCPkg "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/usecase"

	scanH "github.com/fekuna/omnipos-inventory-service/internal/scan/handler"
	scanUCPkg "github.com/fekuna/omnipos-inventory-service/internal/scan/usecase"

	supplierH "github.com/fekuna/omnipos-inventory-service/internal/supplier/handler"
	supplierRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/supplier/repository"
	supplierUCPkg "github.com/fekuna/omnipos-inventory-service/internal/supplier/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inventory-service",
		Short: "Parts ledger, BOM feasibility and purchase orders",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load() // Load .env file if it exists
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file layered over the environment")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configPath)
		},
	})

	return cmd
}

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	return logger.NewZapLogger(logConfig)
}

func connect(cfg *config.Config) (*sqlx.DB, error) {
	return postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
}

func migrate(configPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Apply(context.Background(), db); err != nil {
		return err
	}
	appLogger.Info("Schema applied", zap.String("db_name", cfg.Postgres.DBName))
	return nil
}

func serve(configPath string) error {
	// 1. Load Configuration
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	// 2. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Connect to Database
	db, err := connect(cfg)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis. PO numbers fall back to the clock without it.
	var sequencer poUCPkg.Sequencer
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, PO numbers will be time-derived", zap.Error(err))
	} else {
		defer redisClient.Close()
		sequencer = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka Producer
	var publisher event.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		publisher = event.NewKafkaPublisher(producer)
		appLogger.Info("Publishing events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		appLogger.Info("No Kafka brokers configured, domain events are disabled")
	}

	// 6. Initialize Repositories
	partRepo := partRepoPkg.NewPGRepository(db)
	bomRepo := bomRepoPkg.NewPGRepository(db)
	supplierRepo := supplierRepoPkg.NewPGRepository(db)
	poRepo := poRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	partUC := partUCPkg.NewPartUseCase(partRepo, publisher, appLogger)
	bomUC := bomUCPkg.NewBOMUseCase(bomRepo, partRepo, appLogger)
	supplierUC := supplierUCPkg.NewSupplierUseCase(supplierRepo, appLogger)
	poUC := poUCPkg.NewPurchaseOrderUseCase(
		poRepo, partRepo, supplierRepo,
		poUCPkg.NewNumberGenerator(sequencer, appLogger),
		publisher, appLogger,
	)
	scanUC := scanUCPkg.NewScanUseCase(partRepo, partUC, scanUCPkg.NewHistory(cfg.Scan.HistorySize), appLogger)

	// 8. Initialize Handlers
	engine := router.New(&router.Handlers{
		Part:          partH.NewPartHandler(partUC, appLogger),
		BOM:           bomH.NewBOMHandler(bomUC, appLogger),
		Supplier:      supplierH.NewSupplierHandler(supplierUC, appLogger),
		PurchaseOrder: poH.NewPurchaseOrderHandler(poUC, appLogger),
		Scan:          scanH.NewScanHandler(scanUC, appLogger),
	}, router.Options{AllowedOrigins: cfg.Server.CORSAllowedOrigins}, appLogger)

	// 9. Start HTTP Server
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Start gRPC Server (health and reflection)
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.LoggingInterceptor(appLogger)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		appLogger.Error("Server failed", zap.Error(serveErr))
	}

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	grpcServer.GracefulStop()

	appLogger.Info("Server stopped")
	return serveErr
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
