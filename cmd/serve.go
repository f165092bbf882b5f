package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/handlers"
	"condoparcel/internal/jobs/background"
	"condoparcel/internal/middleware"
	"condoparcel/internal/repositories"
	"condoparcel/internal/services"
	"condoparcel/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

type ServeCmd struct {
	SkipMigrations bool `help:"Do not apply pending migrations on startup." env:"SKIP_MIGRATIONS"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, pool, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !s.SkipMigrations {
		if err := database.RunMigrations(ctx, pool); err != nil {
			return err
		}
	}

	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	cache := caching.NewRedisViewCache(redisClient, cfg.ViewCacheTTL)

	storage, err := services.NewMinioProofStorage(services.MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Region:    cfg.MinioRegion,
		Bucket:    cfg.ProofBucket,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize proof storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.ProofBucket).Msg("proof bucket unavailable, uploads will fail until it is reachable")
	}

	userRepo := repositories.NewUserRepo(pool)
	condominiumRepo := repositories.NewCondominiumRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	unitRepo := repositories.NewUnitRepo(pool)
	residentRepo := repositories.NewResidentUnitRepo(pool)
	packageRepo := repositories.NewPackageRepo(pool)
	withdrawalRepo := repositories.NewWithdrawalRepo(pool)

	tenancyService := services.NewTenancyService(userRepo, condominiumRepo, invoiceRepo)
	authService := services.NewAuthService(userRepo, cache, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	signupService := services.NewSignupService(condominiumRepo, planRepo, unitRepo, userRepo, cache)
	unitService := services.NewUnitService(unitRepo, userRepo, condominiumRepo, cache)
	packageService := services.NewPackageService(packageRepo, unitRepo, residentRepo, cache)
	pickupService := services.NewPickupService(packageRepo, unitRepo, residentRepo, withdrawalRepo, userRepo, storage, cache, cfg.ProofURLExpiry)

	jwtOpts := middleware.JWTOptions{Secret: cfg.JWTSecret}
	if cfg.JWKSURL != "" {
		keyFunc, stopJWKS, err := middleware.LoadJWKS(cfg.JWKSURL)
		if err != nil {
			return err
		}
		defer stopJWKS()
		jwtOpts.KeyFunc = keyFunc
	}

	scheduler, err := background.NewJobScheduler(condominiumRepo, cache, cfg.ReconcileInterval)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop job scheduler")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.RequestValidator{}
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:  cfg.AllowOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{handlers.ScopeVersionHeader, middleware.APIVersionHeader},
	}))

	router := &handlers.Router{
		Health:   handlers.NewHealthHandlers(pool, cache, globals.Version),
		Auth:     handlers.NewAuthHandlers(authService, signupService),
		Users:    handlers.NewUserHandlers(signupService),
		Plans:    handlers.NewPlanHandlers(planRepo),
		Units:    handlers.NewUnitHandlers(unitService, pickupService, cache),
		Packages: handlers.NewPackageHandlers(packageService, cache),
		Pickup:   handlers.NewPickupHandlers(pickupService),
		Tenancy:  tenancyService,
		JWT:      jwtOpts,
	}
	router.Register(e)

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("version", globals.Version).Msg("starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
