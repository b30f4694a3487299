package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/config"
	bettingHttp "github.com/bscit-05-39008695/gamehub/internal/modules/betting/adapter/http"
	bettingDomain "github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	bettingRepo "github.com/bscit-05-39008695/gamehub/internal/modules/betting/repository"
	bettingUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/betting/usecase"
	eventsHttp "github.com/bscit-05-39008695/gamehub/internal/modules/events/adapter/http"
	eventsRedis "github.com/bscit-05-39008695/gamehub/internal/modules/events/adapter/redis"
	eventsUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/events/usecase"
	roomHttp "github.com/bscit-05-39008695/gamehub/internal/modules/room/adapter/http"
	roomDomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	roomRepo "github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	roomUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/room/usecase"
	rouletteHttp "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/adapter/http"
	rouletteResolver "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/adapter/resolver"
	rouletteDomain "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/domain"
	rouletteRepo "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/repository"
	rouletteUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/usecase"
	spinHttp "github.com/bscit-05-39008695/gamehub/internal/modules/spin/adapter/http"
	spinDomain "github.com/bscit-05-39008695/gamehub/internal/modules/spin/domain"
	spinRepo "github.com/bscit-05-39008695/gamehub/internal/modules/spin/repository"
	spinUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/spin/usecase"
	userHttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	userDomain "github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	userRepo "github.com/bscit-05-39008695/gamehub/internal/modules/user/repository"
	userUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/user/usecase"
	walletHttp "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/adapter/http"
	walletDomain "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	walletRepo "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
	walletUseCase "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/usecase"
	"github.com/bscit-05-39008695/gamehub/pkg/keylock"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Server.LogFile != "" {
		logger.InitWithFile(cfg.Server.LogFile, cfg.Server.LogLevel, "json")
	} else {
		logger.Init(logger.Config{Level: cfg.Server.LogLevel, Format: "console"})
	}

	logger.InfoGlobal().Msg("🎮 Starting GameHub...")

	// Infrastructure
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to get database instance")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to ping database")
	}
	logger.InfoGlobal().Msg("✅ Database connected")

	if err := db.AutoMigrate(
		&userDomain.User{},
		&userDomain.Session{},
		&walletDomain.Transaction{},
		&roomDomain.Game{},
		&roomDomain.Room{},
		&roomDomain.Multiplayer{},
		&roomDomain.GameSession{},
		&rouletteDomain.Round{},
		&bettingDomain.Bet{},
		&spinDomain.SpinResult{},
	); err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories
	userRepository := userRepo.NewUserRepository(db)
	sessionRepository := userRepo.NewSessionRepository(db)
	ledger := walletRepo.NewLedgerRepository(db)
	gameRepository := roomRepo.NewGameRepository(db)
	roomRepository := roomRepo.NewRoomRepository(db)
	multiplayerRepository := roomRepo.NewMultiplayerRepository(db)
	gameSessionRepository := roomRepo.NewGameSessionRepository(db)
	roundRepository := rouletteRepo.NewRoundRepository(db)
	betRepository := bettingRepo.NewBetRepository(db)
	spinRepository := spinRepo.NewSpinRepository(db)

	seedGames(ctx, gameRepository, cfg)

	// Events
	bus := eventsUseCase.NewBus(gameSessionRepository)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		bridge := eventsRedis.NewBridge(rdb, bus)
		bus.SetBridge(bridge)
		go bridge.Run(ctx)
		logger.InfoGlobal().Msg("✅ Redis event bridge enabled")
	}

	locks := keylock.New()

	// Modules
	userUC := userUseCase.NewUserUseCase(userRepository, sessionRepository, cfg.JWT.Secret, cfg.JWT.Duration, cfg.Game.InitialBalance)
	walletUC := walletUseCase.NewWalletUseCase(ledger)
	roomUC := roomUseCase.NewRoomUseCase(gameRepository, roomRepository, multiplayerRepository, gameSessionRepository, locks, bus)
	rouletteUC := rouletteUseCase.NewRouletteUseCase(db, roundRepository, multiplayerRepository, roomRepository, gameSessionRepository, locks, bus)
	bettingUC := bettingUseCase.NewBettingUseCase(db, betRepository, ledger, rouletteResolver.NewRoundResolver(rouletteUC), locks, bus)
	spinUC := spinUseCase.NewSpinUseCase(db, spinRepository, betRepository, ledger, gameRepository, gameSessionRepository)

	roomUC.SetRouletteService(rouletteUC)
	rouletteUC.SetBetSettler(bettingUC)
	logger.InfoGlobal().Msg("✅ Modules initialized")

	// HTTP surface
	userHandler := userHttp.NewHandler(userUC)
	walletHandler := walletHttp.NewHandler(walletUC)
	roomHandler := roomHttp.NewHandler(roomUC)
	rouletteHandler := rouletteHttp.NewHandler(rouletteUC)
	bettingHandler := bettingHttp.NewHandler(bettingUC)
	spinHandler := spinHttp.NewHandler(spinUC)
	eventsHandler := eventsHttp.NewHandler(bus)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())

	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.POST("/logout", userHandler.Logout)

	api := router.Group("/api")
	{
		api.POST("/refresh-token", userHandler.Refresh)

		auth := api.Group("")
		auth.Use(userHttp.AuthMiddleware(userUC))
		{
			auth.GET("/profile", userHandler.Profile)

			auth.POST("/deposit", walletHandler.Deposit)
			auth.POST("/withdraw", walletHandler.Withdraw)
			auth.GET("/balance", walletHandler.Balance)
			auth.GET("/transactions", walletHandler.Transactions)

			games := auth.Group("/games")
			{
				games.POST("/rooms", roomHandler.CreateRoom)
				games.POST("/join", roomHandler.Join)
				games.POST("/leave", roomHandler.Leave)
				games.GET("/:game_id/status", roomHandler.Status)

				games.POST("/place-bet", bettingHandler.PlaceBet)
				games.POST("/pull-trigger", rouletteHandler.PullTrigger)

				games.POST("/spin-and-win/play", spinHandler.Play)
				games.GET("/spin-and-win/history", spinHandler.Recent)
			}

			auth.GET("/history", bettingHandler.History)
			auth.GET("/stats", bettingHandler.Stats)

			auth.GET("/events/connect", eventsHandler.Stream)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalGlobal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.InfoGlobal().
		Str("port", cfg.Server.Port).
		Msg("🚀 GameHub running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoGlobal().Msg("🛑 Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("Server forced to shutdown")
	}

	logger.InfoGlobal().Msg("Server exited")
}

func seedGames(ctx context.Context, games *roomRepo.GameRepository, cfg *config.Config) {
	seeds := []roomDomain.Game{
		{
			Code:       roomDomain.GameCodeRoulette,
			GameName:   "Russian Roulette",
			GameType:   roomDomain.GameTypeMultiplayer,
			MaxPlayers: cfg.Game.RouletteMaxPlayers,
			Status:     "active",
		},
		{
			Code:       roomDomain.GameCodeSpin,
			GameName:   "Spin and Win",
			GameType:   roomDomain.GameTypeSingle,
			MaxPlayers: 1,
			Status:     "active",
		},
	}
	for i := range seeds {
		if err := games.Seed(ctx, &seeds[i]); err != nil {
			logger.FatalGlobal().Err(err).Str("code", seeds[i].Code).Msg("Failed to seed game")
		}
	}
	logger.InfoGlobal().Msg("✅ Game catalog seeded")
}
