package service

import (
	"time"

	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/pkg/auth"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/storage"
	"github.com/yi-nology/itam/pkg/validator"
	"go.uber.org/zap"

	"gorm.io/gorm"
)

// Service orchestrates catalog, license and account operations using Logic.
type Service struct {
	logic    *Logic
	ingester *catalog.Ingester
	storage  storage.Storage
	upload   *validator.Upload
	tokens   *auth.TokenManager
	notify   config.NotificationConfig
	basePath string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a Service. tokens may be nil for offline commands that never log in.
func NewService(db *gorm.DB, store storage.Storage, cfg *config.Config, tokens *auth.TokenManager, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logic := NewLogic(db)
	return &Service{
		logic:    logic,
		ingester: catalog.NewIngester(logic, &entityWriter{logic: logic}),
		storage:  store,
		upload:   validator.NewUpload(cfg.Upload),
		tokens:   tokens,
		notify:   cfg.Notification,
		basePath: config.NormalizeBasePath(cfg.Server.BasePath),
		logger:   logger,
		now:      time.Now,
	}
}

// Tokens exposes the token manager used by the auth middleware.
func (s *Service) Tokens() *auth.TokenManager {
	return s.tokens
}
