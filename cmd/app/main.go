package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyhunt/internal/api"
	"skyhunt/internal/config"
	"skyhunt/internal/middleware"
	"skyhunt/internal/repository"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to initialize storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	loc, err := cfg.Coupon.Location()
	if err != nil {
		zapLogger.Fatal("Failed to load coupon timezone", zap.String("timezone", cfg.Coupon.Timezone), zap.Error(err))
	}

	seed := time.Now().UnixNano()
	sessionService := service.NewSessionService(store)
	couponService, err := service.NewCouponService(store, rand.New(rand.NewSource(seed)), service.CouponOptions{
		ValidityDays: cfg.Coupon.ValidityDays,
		Location:     loc,
	})
	if err != nil {
		zapLogger.Fatal("Failed to initialize coupon service", zap.Error(err))
	}
	minigameService := service.NewMinigameService(couponService, rand.New(rand.NewSource(seed+1)))

	gin.SetMode(cfg.Server.Mode)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour

	router, err := api.NewRouter(api.Deps{
		Sessions: sessionService,
		Coupons:  couponService,
		Minigame: minigameService,
		Profile: middleware.ProfileConfig{
			CookieName: cfg.Session.CookieName,
			MaxAge:     cfg.Session.CookieMaxAge,
			Secure:     cfg.Session.SecureCookie,
		},
		ValidityDays: couponService.ValidityDays(),
	}, cors.New(corsConfig))
	if err != nil {
		zapLogger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
