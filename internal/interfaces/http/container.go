package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apppermission "github.com/meidasupport/supportdesk/internal/application/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/auth"
	"github.com/meidasupport/supportdesk/internal/infrastructure/config"
	infrapermission "github.com/meidasupport/supportdesk/internal/infrastructure/permission"
	"github.com/meidasupport/supportdesk/internal/infrastructure/pubsub"
	"github.com/meidasupport/supportdesk/internal/infrastructure/ratelimit"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/middleware"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and handlers,
// wires them together and releases them in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *sharedServices
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          ratelimit.RateLimiter

	// Services shared across sections
	jwtSvc        *auth.JWTService
	enforcer      *infrapermission.Enforcer
	permissionSvc *apppermission.Service
	publisher     pubsub.Publisher

	version string
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, version string, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		version: version,
	}

	// Section 1: Infrastructure - Redis, Repositories, Basic Services
	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers
	c.initHandlers()

	return c, nil
}

// Engine returns the gin engine after SetupRoutes has been called.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown closes the broker connection and the redis client.
func (c *Container) Shutdown() {
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			c.log.Errorw("failed to close event publisher", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}

// initRedis connects to redis when it is enabled. A failed ping is fatal for the container.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Infow("redis disabled, using in-process cache and rate limiter")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return client, nil
}
