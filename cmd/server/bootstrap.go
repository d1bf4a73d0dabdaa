package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ajglobal/staffverify/internal/api"
	"github.com/ajglobal/staffverify/internal/app"
	iauth "github.com/ajglobal/staffverify/internal/auth"
	"github.com/ajglobal/staffverify/internal/cache"
	"github.com/ajglobal/staffverify/internal/credential"
	"github.com/ajglobal/staffverify/internal/database"
	"github.com/ajglobal/staffverify/internal/monitoring"
	"github.com/ajglobal/staffverify/internal/monitoring/checks"
	"github.com/ajglobal/staffverify/internal/render"
	"github.com/ajglobal/staffverify/internal/security"
	"github.com/ajglobal/staffverify/internal/services"
	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Store      store.Store
	Monitoring *monitoring.Module
	Router     *gin.Engine
}

// bootstrapRuntime initialises the database, counters, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			if shutdownErr := stack.Shutdown(); shutdownErr != nil {
				log.Warn("partial bootstrap cleanup", zap.Error(shutdownErr))
			}
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Store, err = store.NewGormStore(stack.DB, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("initialise employee store: %w", err)
	}

	codec, err := credential.NewCodec(cfg.Verification.CodecConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise token codec: %w", err)
	}

	verifyCfg, err := cfg.Verification.VerificationServiceConfig()
	if err != nil {
		return nil, err
	}
	verifier, err := services.NewVerificationService(stack.Store, codec, verifyCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise verification service: %w", err)
	}

	issuerCfg, err := cfg.Verification.IssuerConfig()
	if err != nil {
		return nil, err
	}
	issuer, err := services.NewCredentialIssuer(stack.Store, codec, render.NewQRRenderer(cfg.Render.QRSize), issuerCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise credential issuer: %w", err)
	}

	var adminTokens *iauth.JWTService
	if cfg.Admin.AuthEnabled {
		adminTokens, err = iauth.NewJWTService(cfg.Admin.JWTServiceConfig())
		if err != nil {
			return nil, fmt.Errorf("initialise admin token service: %w", err)
		}
	}

	rateStore, redisProbe := initialiseRateStore(ctx, cfg, stack, log)

	stack.Monitoring = monitoring.NewModule(monitoring.Options{})
	stack.Monitoring.Health().RegisterReadiness(checks.Store(stack.Store, cfg.Database.Timeout))
	stack.Monitoring.Health().RegisterReadiness(checks.Redis(redisProbe, cfg.Cache.Redis.Enabled, cfg.Cache.Redis.Timeout))

	audit := security.NewAuditService(cfg, stack.Store)
	logAudit(ctx, audit, log)

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:       cfg,
		Store:        stack.Store,
		Verification: verifier,
		Issuer:       issuer,
		AdminTokens:  adminTokens,
		RateStore:    rateStore,
		Monitoring:   stack.Monitoring,
		Audit:        audit,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// logAudit reports every non-passing configuration check once at start-up.
func logAudit(ctx context.Context, audit *security.AuditService, log *zap.Logger) {
	result := audit.Run(ctx)
	for _, check := range result.Checks {
		fields := []zap.Field{
			zap.String("check", check.ID),
			zap.String("remediation", check.Remediation),
		}
		switch check.Status {
		case security.StatusFail:
			log.Error(check.Message, fields...)
		case security.StatusWarn:
			log.Warn(check.Message, fields...)
		}
	}
}

// initialiseRateStore prefers shared redis counters and falls back to
// process-local ones when redis is disabled or unreachable. Once running, any
// increment redis fails is counted locally instead.
func initialiseRateStore(ctx context.Context, cfg *app.Config, stack *runtimeStack, log *zap.Logger) (cache.Store, checks.Pinger) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryStore(nil), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisClientConfig())
	if err != nil {
		log.Warn("redis unavailable; falling back to in-process rate limit counters", zap.Error(err))
		return cache.NewMemoryStore(nil), nil
	}
	stack.Redis = client

	redisStore, err := cache.NewRedisStore(client)
	if err != nil {
		log.Warn("redis store unavailable; falling back to in-process rate limit counters", zap.Error(err))
		return cache.NewMemoryStore(nil), nil
	}

	shared, err := cache.NewFallbackStore(redisStore, cache.NewMemoryStore(nil))
	if err != nil {
		log.Warn("redis fallback unavailable; falling back to in-process rate limit counters", zap.Error(err))
		return cache.NewMemoryStore(nil), nil
	}

	log.Info("redis connected", zap.String("addr", client.Options().Addr))
	return shared, redisStore
}

// Shutdown releases the redis client and the database pool.
func (s *runtimeStack) Shutdown() error {
	if s == nil {
		return nil
	}

	var err error
	if s.Redis != nil {
		err = multierr.Append(err, s.Redis.Close())
		s.Redis = nil
	}
	if s.DB != nil {
		err = multierr.Append(err, closeDatabase(s.DB))
		s.DB = nil
	}
	return err
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := convertDatabaseConfig(cfg)
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Prepare(db); err != nil {
		_ = closeDatabase(db)
		return nil, fmt.Errorf("prepare database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:   strings.TrimSpace(cfg.Database.Path),
		DSN:    strings.TrimSpace(cfg.Database.DSN),
	}

	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		applyDBAuth(&dbCfg, cfg.Database.Postgres)
	case "mysql":
		applyDBAuth(&dbCfg, cfg.Database.MySQL)
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	return dbCfg
}

func applyDBAuth(dbCfg *database.Config, auth app.DBAuthConfig) {
	dbCfg.Host = strings.TrimSpace(auth.Host)
	dbCfg.Port = auth.Port
	dbCfg.Name = strings.TrimSpace(auth.Database)
	dbCfg.User = strings.TrimSpace(auth.Username)
	dbCfg.Password = auth.Password
}

func closeDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql db: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
