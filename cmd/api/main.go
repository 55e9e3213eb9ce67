// @title                       Catalog API
// @version                     1.0
// @description                 Product catalog with JWT bearer authentication and role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api"
	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/infrastructure/db/mongo"
	"github.com/storefront/catalog-api/internal/infrastructure/db/mysql"
	"github.com/storefront/catalog-api/internal/infrastructure/db/redis"
	"github.com/storefront/catalog-api/internal/infrastructure/security"
	"github.com/storefront/catalog-api/internal/pkg/config"
	"github.com/storefront/catalog-api/pkg/logger"
)

// stores groups the repositories of the selected driver with its readiness
// check and shutdown hook.
type stores struct {
	users    ports.UserRepository
	products ports.ProductRepository
	check    handler.DependencyCheck
	close    func(context.Context) error
}

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})
	if envErr != nil {
		log.Warn().Msg("no .env file found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()
	checks := []handler.DependencyCheck{st.check}

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: redis.Pinger(rdb)})
	} else {
		log.Info().Msg("REDIS_ADDR not set, Idempotency-Key support disabled")
	}

	tokenCfg := security.TokenConfig{
		Secret:     []byte(cfg.JWT.Secret),
		Algorithms: cfg.JWT.Algorithms,
		TTL:        cfg.JWT.TTL,
		Issuer:     cfg.JWT.Issuer,
	}
	issuer, err := security.NewTokenIssuer(tokenCfg)
	if err != nil {
		return err
	}
	verifier, err := security.NewTokenVerifier(tokenCfg)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(st.users, security.NewBcryptHasher(cfg.JWT.BcryptCost), issuer, verifier, log)
	productService := service.NewProductService(st.products, idem, log)

	if cfg.Admin.Email != "" {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info().Str("user_id", admin.ID).Msg("bootstrap admin ready")
	}

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Identity: authService,
		Products: productService,
		Checks:   checks,
		Logger:   log,

		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		products := mongo.NewProductRepository(db)
		if err := mongo.EnsureIndexes(ctx, users, products); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:    users,
			products: products,
			check:    handler.DependencyCheck{Name: "mongodb", Ping: mongo.Pinger(db)},
			close:    client.Disconnect,
		}, nil
	default:
		db, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN})
		if err != nil {
			return nil, err
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &stores{
			users:    mysql.NewUserRepository(db),
			products: mysql.NewProductRepository(db),
			check:    handler.DependencyCheck{Name: "mysql", Ping: db.PingContext},
			close:    func(context.Context) error { return db.Close() },
		}, nil
	}
}
