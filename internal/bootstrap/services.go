package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/edupulse/edupulse/config"
	redisadapter "github.com/edupulse/edupulse/internal/adapters/redis"
	"github.com/edupulse/edupulse/internal/adapters/rolecache"
	"github.com/edupulse/edupulse/internal/data"
	"github.com/edupulse/edupulse/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Resolver  *service.RoleResolver
	Documents *service.DocumentService
	Datasets  *service.DatasetService

	Sessions  *redisadapter.SessionStore
	Events    *redisadapter.SessionEvents
	Profiles  *data.ProfileRepo
	DocStore  *data.DocumentRepo
	RoleCache *rolecache.Slot
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters and services from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	sessions := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, "session:")
	events := redisadapter.NewSessionEventsWithChannel(deps.RedisClient, cfg.Redis.EventChannel, logger)

	profiles := data.NewProfileRepo(deps.DB)
	docStore := data.NewDocumentRepo(data.DocumentRepoOptions{
		DB:         deps.DB,
		SigningKey: []byte(cfg.Storage.SigningKey),
		BaseURL:    cfg.HTTP.BaseURL,
	})

	provider, err := BuildAuthProvider(cfg.Auth, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Profiles:   profiles,
		Sessions:   sessions,
		Events:     events,
		Provider:   provider,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})

	roleCache := rolecache.New()
	resolver := service.NewRoleResolver(service.RoleResolverOptions{
		Profiles: profiles,
		Cache:    roleCache,
		Timeout:  cfg.Auth.ResolveTimeout,
		Logger:   logger,
	})

	documents := service.NewDocumentService(service.DocumentServiceOptions{
		Store:          docStore,
		SignedURLTTL:   cfg.Storage.SignedURLTTL,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Logger:         logger,
	})

	return ServiceContainer{
		Auth:      auth,
		Resolver:  resolver,
		Documents: documents,
		Datasets:  service.NewDatasetService(),
		Sessions:  sessions,
		Events:    events,
		Profiles:  profiles,
		DocStore:  docStore,
		RoleCache: roleCache,
	}, nil
}
