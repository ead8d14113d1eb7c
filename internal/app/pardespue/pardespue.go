// Package pardespue arranca la aplicación principal: abre el
// almacenamiento, aplica las migraciones, inicializa la caché y el
// proveedor de pagos, monta las rutas y sirve la API HTTP.
package pardespue

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/lromnav497/pardespue/internal/cache"
	"github.com/lromnav497/pardespue/internal/config"
	"github.com/lromnav497/pardespue/internal/lib/jwt"
	"github.com/lromnav497/pardespue/internal/migrations"
	"github.com/lromnav497/pardespue/internal/paymentprovider"
	authservice "github.com/lromnav497/pardespue/internal/services/auth"
	capsuleservice "github.com/lromnav497/pardespue/internal/services/capsule"
	commentservice "github.com/lromnav497/pardespue/internal/services/comment"
	contentservice "github.com/lromnav497/pardespue/internal/services/content"
	likeservice "github.com/lromnav497/pardespue/internal/services/like"
	notificationservice "github.com/lromnav497/pardespue/internal/services/notification"
	paymentservice "github.com/lromnav497/pardespue/internal/services/payment"
	planservice "github.com/lromnav497/pardespue/internal/services/plan"
	recipientservice "github.com/lromnav497/pardespue/internal/services/recipient"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// App es la aplicación principal de ParDespué.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New construye la aplicación con todas sus dependencias.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.ShopID, cfg.SecretKey)

	authService := authservice.New(db, jwtMaker)
	planService := planservice.New(db, logger)
	capsuleService := capsuleservice.New(db, cacheRedis, planService, logger)
	recipientService := recipientservice.New(db, planService, logger)
	contentService := contentservice.New(db, planService, logger)
	commentService := commentservice.New(db, planService, logger)
	likeService := likeservice.New(db, planService, logger)
	notificationService := notificationservice.New(db)
	paymentService := paymentservice.New(db, planService, providerClient, cfg.Payment, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Plan:         planService,
		Capsule:      capsuleService,
		Recipient:    recipientService,
		Content:      contentService,
		Comment:      commentService,
		Like:         likeService,
		Notification: notificationService,
		Payment:      paymentService,
		Catalog:      db,
		HealthCheck:  func() error { return repository.CheckDatabaseReady(db) },
	}, cfg.Payment.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run sirve la API hasta que el contexto se cancele y entonces apaga el
// servidor con un margen de gracia.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
