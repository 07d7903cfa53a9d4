package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/auth"
	authpg "github.com/Ujjwols/tender-internproject/internal/auth/postgres"
	"github.com/Ujjwols/tender-internproject/internal/committee"
	committeepg "github.com/Ujjwols/tender-internproject/internal/committee/postgres"
	"github.com/Ujjwols/tender-internproject/internal/core/events"
	"github.com/Ujjwols/tender-internproject/internal/notification"
	"github.com/Ujjwols/tender-internproject/internal/storage"
	"github.com/Ujjwols/tender-internproject/internal/transport/rest"
	"github.com/Ujjwols/tender-internproject/internal/user"
	userpg "github.com/Ujjwols/tender-internproject/internal/user/postgres"
	"github.com/Ujjwols/tender-internproject/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Mailer *notification.Mailer
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Mailer.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides the same connection pool sqlx owns.
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db pool: %w", err)
	}

	fileStore, err := initFileStore(config.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	bus := events.NewEventBus(lg)

	mailer := notification.NewMailer(
		notification.NewSMTPSender(config.Mail),
		config.Mail.Workers,
		config.Mail.QueueSize,
		lg,
	)
	notification.NewEventHandler(mailer, lg).RegisterEventHandlers(bus)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(
		authpg.NewAuthRepository(gdb),
		tokens,
		bus,
		config.Security.BCryptCost,
		config.Security.ResetTokenDuration,
		lg,
	)
	authHandler := auth.NewHandler(authService, config.Security.TokenDuration, config.Security.CookieSecure)

	userRepo := userpg.NewUserRepository(gdb)
	userHandler := user.NewHandler(user.NewService(userRepo, lg))

	committeeService := committee.NewService(
		committeepg.NewCommitteeRepository(gdb),
		userRepo,
		fileStore,
		bus,
		lg,
	)
	committeeHandler := committee.NewHandler(committeeService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, userHandler, committeeHandler, config.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Mailer: mailer,
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initFileStore(cfg internal.StorageConfig, lg *slog.Logger) (storage.FileStore, error) {
	switch cfg.Backend {
	case "s3":
		return storage.NewS3Store(context.Background(), cfg.S3, lg)
	default:
		return storage.NewLocalStore(cfg.UploadDir, lg)
	}
}
