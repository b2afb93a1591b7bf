package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviegram/internal/cache"
	"moviegram/internal/config"
	"moviegram/internal/database"
	"moviegram/internal/handler"
	"moviegram/internal/mailer"
	"moviegram/internal/queue"
	appredis "moviegram/internal/redis"
	"moviegram/internal/repository"
	"moviegram/internal/service"
	"moviegram/internal/worker"
)

// Run wires the whole application together and serves HTTP until the process
// receives SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Queue and cache
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	metaCache := cache.NewMetadataCache(redisClient.Client)

	// Services
	userService := service.NewUserService(userRepo, cfg)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	commentService := service.NewCommentService(commentRepo, userRepo, publisher)
	wishlistService := service.NewWishlistService(wishlistRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	otpService := service.NewOTPService(otpRepo, userRepo, refreshTokenRepo, mailer.New(cfg))

	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	tmdbClient := service.NewTMDBClient(cfg, metaCache)
	geminiClient := service.NewGeminiClient(cfg)
	chatService := service.NewChatService(tmdbClient, geminiClient)

	// Engagement workers turn stream events into stored notifications
	manager := worker.NewManager(consumer, worker.NewHandler(notificationService), worker.DefaultManagerConfig())
	if err := manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start engagement workers: %w", err)
	}
	defer manager.Stop()

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, otpService),
		UserHandler:         handler.NewUserHandler(userService, mediaService, cfg),
		MovieHandler:        handler.NewMovieHandler(tmdbClient),
		CommentHandler:      handler.NewCommentHandler(commentService),
		WishlistHandler:     handler.NewWishlistHandler(wishlistService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		ChatHandler:         handler.NewChatHandler(chatService),
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("[Server] Stopped")
	return nil
}
