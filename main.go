package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/config"
	"github.com/codeloom-ai/codeloom-engine/pkg/database"
	"github.com/codeloom-ai/codeloom-engine/pkg/extract"
	"github.com/codeloom-ai/codeloom-engine/pkg/handlers"
	"github.com/codeloom-ai/codeloom-engine/pkg/llm"
	"github.com/codeloom-ai/codeloom-engine/pkg/logging"
	"github.com/codeloom-ai/codeloom-engine/pkg/mcp"
	"github.com/codeloom-ai/codeloom-engine/pkg/mcp/tools"
	"github.com/codeloom-ai/codeloom-engine/pkg/middleware"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
	"github.com/codeloom-ai/codeloom-engine/pkg/repositories"
	"github.com/codeloom-ai/codeloom-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

// defaultUsername names the single user every record is attributed to
// while authentication remains an external collaborator.
const defaultUsername = "developer"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("database", cfg.Database.Type),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg, logger.Named("database"))
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	userID, err := seedDefaultUser(ctx, store)
	if err != nil {
		logger.Fatal("Failed to seed default user", zap.Error(err))
	}
	logger.Info("Default user ready", zap.String("user_id", userID.String()))

	client, err := llm.NewClient(&llm.Config{
		Provider: cfg.AI.Provider,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}, logger.Named("llm"))
	if err != nil {
		logger.Fatal("Failed to create AI client", zap.Error(err))
	}

	temperature := cfg.AI.Temperature
	timeout := cfg.AI.RequestTimeout()
	classification := services.NewClassificationService(client, temperature, timeout, logger.Named("classification"))
	codeGeneration := services.NewCodeGenerationService(client, temperature, timeout, logger.Named("code_generation"))
	testGeneration := services.NewTestGenerationService(client, temperature, timeout, logger.Named("test_generation"))
	documentation := services.NewDocumentationService(client, temperature, timeout, logger.Named("documentation"))
	chat := services.NewChatService(client, temperature, timeout, logger.Named("chat"))

	extractor := extract.NewExtractor(cfg.Upload.MaxSizeBytes, logger.Named("extract"))

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger.Named("health")).RegisterRoutes(mux)
	handlers.NewRequirementsHandler(extractor, classification, store, userID, cfg.Upload.MaxSizeBytes, logger.Named("requirements")).RegisterRoutes(mux)
	handlers.NewCodeHandler(codeGeneration, store, userID, logger.Named("code")).RegisterRoutes(mux)
	handlers.NewTestsHandler(testGeneration, store, userID, logger.Named("tests")).RegisterRoutes(mux)
	handlers.NewDocumentationHandler(documentation, store, userID, logger.Named("documentation")).RegisterRoutes(mux)
	handlers.NewChatHandler(chat, store, userID, logger.Named("chat")).RegisterRoutes(mux)

	// The same operations again, exposed as MCP tools at /mcp.
	mcpServer := mcp.NewServer("codeloom-engine", cfg.Version, logger.Named("mcp"))
	tools.RegisterAll(mcpServer.MCP(), cfg.Version, &tools.ToolDeps{
		Classification: classification,
		CodeGeneration: codeGeneration,
		TestGeneration: testGeneration,
		Documentation:  documentation,
		Store:          store,
		UserID:         userID,
		Logger:         logger.Named("mcp"),
	})
	handlers.NewMCPHandler(mcpServer, logger.Named("mcp")).RegisterRoutes(mux)

	// Serve static UI files from ui/dist
	fs := http.FileServer(http.Dir("./ui/dist"))
	mux.Handle("/", fs)

	handler := middleware.RequestLogger(logger.Named("http"))(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting codeloom-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newStore builds the configured store backend. The returned close
// func releases the connection pool; it is a no-op for the memory
// store.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories.Store, func(), error) {
	if cfg.Database.Type == config.StoreMemory {
		logger.Info("Using in-memory store; records will not survive a restart")
		return repositories.NewMemoryStore(), func() {}, nil
	}

	dbCfg := cfg.Database
	dbCfg.Host = config.ResolveHostForDocker(dbCfg.Host)
	connURL := dbCfg.ConnectionString()

	migrationDB, err := database.OpenForMigrations(connURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(migrationDB, "migrations", logger); err != nil {
		_ = migrationDB.Close()
		return nil, nil, err
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connURL,
		MaxConnections: dbCfg.MaxConnections,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to PostgreSQL",
		zap.String("host", dbCfg.Host),
		zap.String("database", dbCfg.Database))

	return repositories.NewPostgresStore(db), db.Close, nil
}

// seedDefaultUser returns the default user's ID, creating the user on
// first boot. Lookup-then-create keeps restarts idempotent against a
// persistent store.
func seedDefaultUser(ctx context.Context, store *repositories.Store) (uuid.UUID, error) {
	existing, err := store.Users.GetByUsername(ctx, defaultUsername)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return uuid.Nil, err
	}

	user := &models.User{
		Username: defaultUsername,
		// No login flow exists; the column just requires a value.
		Password: "unused",
		Email:    "developer@codeloom.local",
	}
	if err := store.Users.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
