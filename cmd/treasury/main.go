package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/config"
	"github.com/stablehq/treasury/internal/pkg/database"
	"github.com/stablehq/treasury/internal/pkg/health"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/middleware"
	natspkg "github.com/stablehq/treasury/internal/pkg/nats"
	nrpkg "github.com/stablehq/treasury/internal/pkg/newrelic"
	"github.com/stablehq/treasury/internal/pkg/server"
	"github.com/stablehq/treasury/internal/pkg/solanaclient"
	"github.com/stablehq/treasury/internal/pkg/squads"
	rampHandler "github.com/stablehq/treasury/services/ramp/handler"
	rampGateway "github.com/stablehq/treasury/services/ramp/gateway"
	rampRepository "github.com/stablehq/treasury/services/ramp/repository"
	rampUsecase "github.com/stablehq/treasury/services/ramp/usecase"
	swapHandler "github.com/stablehq/treasury/services/swap/handler"
	swapGateway "github.com/stablehq/treasury/services/swap/gateway"
	swapRepository "github.com/stablehq/treasury/services/swap/repository"
	swapUsecase "github.com/stablehq/treasury/services/swap/usecase"
	walletHandler "github.com/stablehq/treasury/services/wallet/handler"
	walletUsecase "github.com/stablehq/treasury/services/wallet/usecase"
)

const appName = "treasury-api"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	configs := config.InitConfig(configPath)

	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.NewZapLogger(configs.Logger, nrApp)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment))

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresClient.Close()

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer redisClient.Close()

	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	defer natsClient.Close()

	if configs.Solana.SquadsProgramID != "" {
		programID, err := solana.PublicKeyFromBase58(configs.Solana.SquadsProgramID)
		if err != nil {
			zapLogger.Fatal("Invalid Squads program ID", logger.Err(err),
				logger.String("program_id", configs.Solana.SquadsProgramID))
		}
		squads.SetProgramID(programID)
	}

	ledgerClient := solanaclient.New(configs.Solana, zapLogger)

	// Repositories
	orgRepo := swapRepository.NewOrganizationRepo(postgresClient)
	flowStore := swapRepository.NewRedisFlowStore(redisClient, configs)
	txnRepo := rampRepository.NewTransactionRepo(postgresClient)

	// Gateways
	dexGW := swapGateway.NewDexGateway(configs, zapLogger)
	ledgerGW := swapGateway.NewLedgerGateway(ledgerClient)
	swapEvents := swapGateway.NewNATSGateway(natsClient)
	fiatGW := rampGateway.NewZynkGateway(configs, zapLogger)
	complianceGW := rampGateway.NewCircleGateway(configs, zapLogger)
	rampEvents := rampGateway.NewNATSGateway(natsClient)

	// Usecases
	swapUC := swapUsecase.NewSwapUC(orgRepo, flowStore, dexGW, ledgerGW, swapEvents, configs, zapLogger)
	rampUC := rampUsecase.NewRampUC(orgRepo, txnRepo, fiatGW, complianceGW, rampEvents, configs, zapLogger)
	walletUC := walletUsecase.NewWalletUC(orgRepo, ledgerGW, zapLogger)

	// HTTP router
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.NewRelicMiddleware(nrApp))
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName)

	api := e.Group("/api", middleware.AuthMiddleware(configs.Auth))
	api.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RedisClient: redisClient.GetClient(),
		Key:         "treasury:ratelimit",
		Limit:       60,
		Period:      time.Minute,
	}))

	swapHandler.NewHandler(swapUC, configs).RegisterRoutes(api)
	rampHandler.NewHandler(rampUC, configs).RegisterRoutes(api)
	walletHandler.NewHandler(walletUC).RegisterRoutes(api)

	shutdown := server.NewShutdownManager(zapLogger)
	shutdown.Register(func(ctx context.Context) error { return postgresClient.Close() })
	shutdown.Register(func(ctx context.Context) error { return redisClient.Close() })
	shutdown.Register(func(ctx context.Context) error { natsClient.Close(); return nil })

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := shutdown.Shutdown(ctx); err != nil {
		zapLogger.Error("Shutdown finished with errors", logger.Err(err))
	}
}
