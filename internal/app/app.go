package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/intranet/internal/admin"
	"github.com/hitoshi/intranet/internal/client"
	"github.com/hitoshi/intranet/internal/config"
	"github.com/hitoshi/intranet/internal/content"
	"github.com/hitoshi/intranet/internal/database"
	"github.com/hitoshi/intranet/internal/handler"
	"github.com/hitoshi/intranet/internal/labels"
	"github.com/hitoshi/intranet/internal/logger"
	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/middleware"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
	"github.com/hitoshi/intranet/internal/security"
	"github.com/hitoshi/intranet/internal/space"
	"github.com/hitoshi/intranet/internal/storage"
	"github.com/hitoshi/intranet/internal/tui"
	"github.com/hitoshi/intranet/internal/upload"
	"github.com/hitoshi/intranet/internal/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、LOG_LEVELに従ったJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルでロガーを作り直す
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.SetupDefault(w, level)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandTUI:
		return runTUI(cfg)
	default:
		slog.Info("starting application",
			slog.String("command", string(cmd)),
			slog.String("port", cfg.ServerPort),
			slog.String("env", cfg.AppEnv),
			slog.String("storage", cfg.StorageBackend),
		)
		return runServe(cfg)
	}
}

// services はAPIサーバーと端末クライアントの直接アクセスで共有するサービス層。
type services struct {
	users   *user.Service
	spaces  *space.Service
	content *content.Service
	admin   *admin.Service
}

func newServices(db *sql.DB, collector metrics.MetricsCollector) *services {
	return &services{
		users:   user.NewService(repository.NewPostgresUserRepo(db)),
		spaces:  space.NewService(repository.NewPostgresSpaceRepo(db)),
		content: content.NewService(repository.NewPostgresContentRepo(db), security.NewContentSanitizer(), collector),
		admin:   admin.NewService(repository.NewPostgresFormFieldRepo(db)),
	}
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// newStore はSTORAGE_BACKENDに応じたアップロード保存先を返す。
// ローカル保存の場合のみ、ファイル配信用のFileOpenerも返す。
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, handler.FileOpener, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		s3Store, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3Store, nil, nil
	default:
		local, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. DB接続
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established")

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 3. サービス層とアップロード保存先
	svc := newServices(db, collector)

	store, files, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	uploadService := upload.NewService(store, repository.NewPostgresAttachmentRepo(db), collector, cfg.UploadMaxSize)

	// 4. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:             slog.Default(),
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		RateLimiter:        middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitWrite)),
		Metrics:            collector,
		MetricsGatherer:    registry,
		ExposeErrorDetails: !cfg.IsProduction(),

		HealthChecker: db,

		UserService:    svc.users,
		SpaceService:   svc.spaces,
		ContentService: svc.content,
		UploadService:  uploadService,
		AdminService:   svc.admin,

		UploadFiles: files,
	}

	router := handler.NewRouter(deps)

	// 5. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runTUI は端末クライアントを起動する。
// SUBMIT_STRATEGYに応じてAPI、DB直接、またはフォールバック付きのBackendを組み立てる。
func runTUI(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 画面を端末クライアントが占有するため、ログは標準出力に出さない
	log, closeLog, err := tuiLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	strategy, err := client.ParseStrategy(cfg.SubmitStrategy)
	if err != nil {
		return err
	}

	formLabels, err := labels.Load(cfg.FormLabelsPath)
	if err != nil {
		return err
	}

	api := client.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.ClientTimeout}, model.ID(cfg.UserID), log)

	var direct *client.Direct
	if strategy.NeedsDirect() {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return fmt.Errorf("strategy %s: %w", strategy, err)
		}
		defer db.Close()

		svc := newServices(db, metrics.Nop{})
		direct = client.NewDirect(svc.content, svc.spaces, svc.users)
	}

	backend, err := client.NewBackend(strategy, api, direct, metrics.Nop{}, log)
	if err != nil {
		return err
	}

	log.Info("terminal client starting",
		slog.String("strategy", string(strategy)),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.Int64("user_id", cfg.UserID),
	)

	return tui.Run(ctx, tui.Options{
		Backend:   backend,
		Labels:    formLabels,
		UserID:    model.ID(cfg.UserID),
		StartPath: cfg.StartPath,
		Guard:     cfg.OverlayGuard,
		Timeout:   cfg.ClientTimeout,
		Logger:    log,
	})
}

// tuiLogger はTUI_LOG_FILEが指定されていればそのファイルに、なければ破棄するロガーを返す。
// 返したロガーはグローバルロガーにも設定する。
func tuiLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.TUILogFile == "" {
		return logger.SetupDefault(io.Discard, level), func() {}, nil
	}

	f, err := os.OpenFile(cfg.TUILogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger.SetupDefault(f, level), func() { f.Close() }, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
