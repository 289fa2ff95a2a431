package http

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	auditusecases "github.com/meidasupport/supportdesk/internal/application/audit/usecases"
	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	userusecases "github.com/meidasupport/supportdesk/internal/application/user/usecases"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/infrastructure/auth"
	"github.com/meidasupport/supportdesk/internal/infrastructure/cache"
	"github.com/meidasupport/supportdesk/internal/infrastructure/email"
	infrapermission "github.com/meidasupport/supportdesk/internal/infrastructure/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/pubsub"
	"github.com/meidasupport/supportdesk/internal/infrastructure/ratelimit"
	"github.com/meidasupport/supportdesk/internal/infrastructure/repository"
	"github.com/meidasupport/supportdesk/internal/infrastructure/storage"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/services/sanitize"
)

const tokenIssuer = "supportdesk"

// repositories holds every repository instance. Types match the constructor return types.
type repositories struct {
	userRepo       user.Repository
	sessionRepo    user.SessionRepository
	roleRepo       permission.RoleRepository
	permissionRepo permission.PermissionRepository
	auditRepo      audit.Repository
	technicianRepo technician.Repository
	ticketRepo     *repository.TicketRepository
	eventRepo      *repository.TicketEventRepository
	imageRepo      *repository.TicketImageRepository
}

// sharedServices are the infrastructure adapters handed to more than one use case.
type sharedServices struct {
	tx        db.Transactor
	hasher    *auth.BcryptPasswordHasher
	totp      *auth.TOTPProvider
	mailer    userusecases.Mailer
	storage   *storage.LocalStorage
	sanitizer *sanitize.Sanitizer
	recorder  *auditusecases.Recorder
}

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Basic Services
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	redisClient, err := initRedis(cfg, log)
	if err != nil {
		return err
	}
	c.redis = redisClient

	c.repos = newRepositories(c.db)

	jwtCfg := cfg.Auth.JWT
	c.jwtSvc = auth.NewJWTService(
		jwtCfg.Secret,
		tokenIssuer,
		time.Duration(jwtCfg.AccessExpMinutes)*time.Minute,
		time.Duration(jwtCfg.RefreshExpDays)*24*time.Hour,
		time.Duration(jwtCfg.PasswordResetExpHours)*time.Hour,
	)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.UploadRoot)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	c.svcs = &sharedServices{
		tx:        db.NewTransactionManager(c.db),
		hasher:    auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		totp:      auth.NewTOTPProvider(cfg.Auth.TOTP.Issuer),
		mailer:    email.NewMailer(cfg.Email, jwtCfg.PasswordResetExpHours, log.Named("email")),
		storage:   fileStorage,
		sanitizer: sanitize.New(),
		recorder:  auditusecases.NewRecorder(c.repos.auditRepo, log.Named("audit")),
	}

	c.publisher, err = pubsub.NewPublisher(cfg.Broker, c.redis, log.Named("pubsub"))
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	if err := c.initPermissions(); err != nil {
		return err
	}

	if c.redis != nil {
		c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.rateLimiter = ratelimit.NewMemoryRateLimiter()
	}

	c.authMiddleware = middleware.NewAuthMiddleware(
		c.jwtSvc,
		userusecases.NewValidateSessionUseCase(c.repos.userRepo, c.repos.sessionRepo, log.Named("session")),
		log.Named("auth"),
	)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.permissionSvc, log.Named("permission"))

	return nil
}

// initPermissions builds the casbin enforcer, loads the current policies and wraps both
// with the access cache.
func (c *Container) initPermissions() error {
	log := c.log.Named("permission")

	enforcer, err := infrapermission.NewEnforcer(c.db, c.repos.roleRepo, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := enforcer.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to load permission policies: %w", err)
	}
	c.enforcer = enforcer

	var accessCache apppermission.AccessCache
	if c.redis != nil {
		accessCache = cache.NewRedisAccessCache(c.redis, log)
	} else {
		accessCache = cache.NewMemoryAccessCache(0)
	}

	c.permissionSvc = apppermission.NewService(c.repos.roleRepo, enforcer, accessCache, log)
	return nil
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(gdb *gorm.DB) *repositories {
	return &repositories{
		userRepo:       repository.NewUserRepository(gdb),
		sessionRepo:    repository.NewSessionRepository(gdb),
		roleRepo:       repository.NewRoleRepository(gdb),
		permissionRepo: repository.NewPermissionRepository(gdb),
		auditRepo:      repository.NewAuditRepository(gdb),
		technicianRepo: repository.NewTechnicianRepository(gdb),
		ticketRepo:     repository.NewTicketRepository(gdb),
		eventRepo:      repository.NewTicketEventRepository(gdb),
		imageRepo:      repository.NewTicketImageRepository(gdb),
	}
}
