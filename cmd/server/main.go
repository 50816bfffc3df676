package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	accounthttp "github.com/Skotchmaster/topup_shop/internal/account/httpserver"
	accountrepo "github.com/Skotchmaster/topup_shop/internal/account/repo"
	accountsvc "github.com/Skotchmaster/topup_shop/internal/account/service"
	carthttp "github.com/Skotchmaster/topup_shop/internal/cart/httpserver"
	cartrepo "github.com/Skotchmaster/topup_shop/internal/cart/repo"
	cartsvc "github.com/Skotchmaster/topup_shop/internal/cart/service"
	cataloghttp "github.com/Skotchmaster/topup_shop/internal/catalog/httpserver"
	catalogrepo "github.com/Skotchmaster/topup_shop/internal/catalog/repo"
	catalogsvc "github.com/Skotchmaster/topup_shop/internal/catalog/service"
	"github.com/Skotchmaster/topup_shop/internal/models"
	orderhttp "github.com/Skotchmaster/topup_shop/internal/order/httpserver"
	orderrepo "github.com/Skotchmaster/topup_shop/internal/order/repo"
	ordersvc "github.com/Skotchmaster/topup_shop/internal/order/service"
	paymenthttp "github.com/Skotchmaster/topup_shop/internal/payment/httpserver"
	paymentrepo "github.com/Skotchmaster/topup_shop/internal/payment/repo"
	paymentsvc "github.com/Skotchmaster/topup_shop/internal/payment/service"
	httpserver "github.com/Skotchmaster/topup_shop/internal/transport/http"
	"github.com/Skotchmaster/topup_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/topup_shop/pkg/db"
	"github.com/Skotchmaster/topup_shop/pkg/events"
	"github.com/Skotchmaster/topup_shop/pkg/identity"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
	middleware "github.com/Skotchmaster/topup_shop/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/topup_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/topup_shop/pkg/response"
	"github.com/Skotchmaster/topup_shop/pkg/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	decimal.MarshalJSONWithoutQuotes = true

	provider := identity.Init(identity.Config{
		ProjectID:   cfg.IdentityProjectID,
		ClientEmail: cfg.IdentityClientEmail,
		PrivateKey:  cfg.IdentityPrivateKey,
		KeyID:       cfg.IdentityKeyID,
		KeysURL:     cfg.IdentityKeysURL,
	})
	// a nil provider still serves public routes; protected ones answer 401
	gate := middleware.NewGate(provider)

	var publisher events.Publisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	catalogSvc := &catalogsvc.CatalogService{Repo: &catalogrepo.GormRepo{DB: db}}
	if cfg.ESURL != "" {
		index, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			logger.Warn("search_index_unavailable", "error", err)
		} else {
			catalogSvc.Index = index
		}
	}
	catalog := catalogSvc.Repo

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = response.NewValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins, AllowCredentials: true}))
	} else {
		e.Use(echomw.CORS())
	}

	httpserver.Register(e, &httpserver.Deps{
		DB:      db,
		Gate:    gate,
		Account: &accounthttp.AccountHTTP{Svc: &accountsvc.AccountService{Repo: &accountrepo.GormRepo{DB: db}}},
		Catalog: &cataloghttp.CatalogHTTP{Svc: catalogSvc, Events: publisher},
		Cart:    &carthttp.CartHTTP{Svc: &cartsvc.CartService{Repo: &cartrepo.GormRepo{DB: db}, Catalog: catalog}},
		Order: &orderhttp.OrderHTTP{
			Svc:    &ordersvc.OrderService{Repo: &orderrepo.GormRepo{DB: db}, Catalog: catalog},
			Events: publisher,
		},
		Payment: &paymenthttp.PaymentHTTP{Svc: &paymentsvc.PaymentService{Repo: &paymentrepo.GormRepo{DB: db}}, Events: publisher},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("producer_close_failed", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server_stopped")
}
