package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mertbeyaz/battleship-go/internal/adapters/httpapi"
	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/adapters/ws"
	chatcommands "github.com/mertbeyaz/battleship-go/internal/application/chat/commands"
	chatqueries "github.com/mertbeyaz/battleship-go/internal/application/chat/queries"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	gameplaycommands "github.com/mertbeyaz/battleship-go/internal/application/gameplay/commands"
	gameplayqueries "github.com/mertbeyaz/battleship-go/internal/application/gameplay/queries"
	matchcommands "github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	sessioncommands "github.com/mertbeyaz/battleship-go/internal/application/session/commands"
	sessionservices "github.com/mertbeyaz/battleship-go/internal/application/session/services"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/config"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/database"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/logging"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the battleship server",
		Long: `Starts the HTTP/WebSocket listener, the background worker pool and
the stale-connection cleaner. Blocks until SIGINT or SIGTERM, then
drains in-flight requests within server.shutdown_timeout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	// 1. Logger
	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	// 2. Metrics (opt-in)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewGameMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics.SetGlobalCollector(collector)
		logger.Infow("metrics enabled", "path", cfg.Metrics.Path)
	}

	// 3. Database
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Infow("database ready", "type", cfg.Database.Type)

	// 4. Repositories
	gameRepo := persistence.NewGormGameRepository(db, nil) // nil = use RealClock in production
	lobbyRepo := persistence.NewGormLobbyRepository(db)
	tokenRepo := persistence.NewGormResumeTokenRepository(db)
	connectionRepo := persistence.NewGormConnectionRepository(db)
	chatRepo := persistence.NewGormChatRepository(db)

	tokens := session.NewTokenRegistry(tokenRepo, nil)
	locks := common.NewGameLockRegistry()
	gameCfg := cfg.Game.Configuration()

	// 5. Worker pool for grace checks and the cleaner
	poolCtx, cancelPool := context.WithCancel(context.Background())
	defer cancelPool()
	pool := scheduler.NewPool(cfg.Scheduler.PoolSize, logger)
	pool.Start(poolCtx)
	defer pool.Stop()

	// 6. WebSocket hub; it is the event publisher for every handler
	hub := ws.NewHub(logger)
	go hub.Run()

	tracker := sessionservices.NewConnectionTracker(
		gameRepo, connectionRepo, hub, locks, pool, cfg.Disconnect.GracePeriod(), nil, logger)

	cleaner := sessionservices.NewConnectionCleaner(
		connectionRepo, cfg.Connection.Cleanup.Interval(), cfg.Connection.Cleanup.Threshold(), nil, logger)
	cleaner.Start(pool)

	// 7. Mediator and handlers
	med := common.NewMediator()
	med.Use(common.LoggingMiddleware(logger))

	autoJoinHandler := matchcommands.NewAutoJoinHandler(gameRepo, lobbyRepo, tokens, hub, locks, gameCfg, nil)
	if err := common.RegisterHandler[*matchcommands.AutoJoinCommand](med, autoJoinHandler); err != nil {
		return fmt.Errorf("failed to register AutoJoin handler: %w", err)
	}

	confirmBoardHandler := gameplaycommands.NewConfirmBoardHandler(gameRepo, hub, locks)
	if err := common.RegisterHandler[*gameplaycommands.ConfirmBoardCommand](med, confirmBoardHandler); err != nil {
		return fmt.Errorf("failed to register ConfirmBoard handler: %w", err)
	}

	rerollBoardHandler := gameplaycommands.NewRerollBoardHandler(gameRepo, hub, locks, nil)
	if err := common.RegisterHandler[*gameplaycommands.RerollBoardCommand](med, rerollBoardHandler); err != nil {
		return fmt.Errorf("failed to register RerollBoard handler: %w", err)
	}

	fireShotHandler := gameplaycommands.NewFireShotHandler(gameRepo, hub, locks, nil)
	if err := common.RegisterHandler[*gameplaycommands.FireShotCommand](med, fireShotHandler); err != nil {
		return fmt.Errorf("failed to register FireShot handler: %w", err)
	}

	pauseGameHandler := gameplaycommands.NewPauseGameHandler(gameRepo, hub, locks)
	if err := common.RegisterHandler[*gameplaycommands.PauseGameCommand](med, pauseGameHandler); err != nil {
		return fmt.Errorf("failed to register PauseGame handler: %w", err)
	}

	forfeitGameHandler := gameplaycommands.NewForfeitGameHandler(gameRepo, hub, locks, nil)
	if err := common.RegisterHandler[*gameplaycommands.ForfeitGameCommand](med, forfeitGameHandler); err != nil {
		return fmt.Errorf("failed to register ForfeitGame handler: %w", err)
	}

	resumeGameHandler := sessioncommands.NewResumeGameHandler(gameRepo, tokens, connectionRepo, hub, locks)
	if err := common.RegisterHandler[*sessioncommands.ResumeGameCommand](med, resumeGameHandler); err != nil {
		return fmt.Errorf("failed to register ResumeGame handler: %w", err)
	}

	getGameHandler := gameplayqueries.NewGetGameHandler(gameRepo)
	if err := common.RegisterHandler[*gameplayqueries.GetGameQuery](med, getGameHandler); err != nil {
		return fmt.Errorf("failed to register GetGame handler: %w", err)
	}

	sendMessageHandler := chatcommands.NewSendMessageHandler(gameRepo, chatRepo, hub, nil)
	if err := common.RegisterHandler[*chatcommands.SendMessageCommand](med, sendMessageHandler); err != nil {
		return fmt.Errorf("failed to register SendMessage handler: %w", err)
	}

	getMessagesHandler := chatqueries.NewGetMessagesHandler(gameRepo, chatRepo)
	if err := common.RegisterHandler[*chatqueries.GetMessagesQuery](med, getMessagesHandler); err != nil {
		return fmt.Errorf("failed to register GetMessages handler: %w", err)
	}

	hub.Bind(med, tracker)
	hub.WarmUp()

	// 8. HTTP listener
	server := httpapi.NewServer(med, http.HandlerFunc(hub.HandleUpgrade), cfg.Metrics.Path, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()
	logger.Infow("server listening", "address", cfg.Server.Address())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("http shutdown incomplete", "error", err)
	}
	hub.Shutdown()

	logger.Infow("server stopped")
	return nil
}
