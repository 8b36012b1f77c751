package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sameer7300/Oraagh/internal/cache"
	"github.com/sameer7300/Oraagh/internal/config"
	h "github.com/sameer7300/Oraagh/internal/http"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
	"github.com/sameer7300/Oraagh/internal/service"
)

func main() {
	cfg := config.Load()

	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	cartCache := cache.NewRedisCache(redisClient)

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}
	templates, err := mailer.NewTemplateSet()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	tracker := service.NewTracker(repo)
	cartSvc := service.NewCartService(repo, cartCache, tracker)
	checkoutSvc := service.NewCheckoutService(
		repo, repo, repo, tracker, cartCache,
		smtpMailer, templates, cfg.Site, cfg.AdminEmail,
	)
	orderSvc := service.NewOrderService(repo, repo, smtpMailer, templates, cfg.Site)
	catalogSvc := service.NewCatalogService(repo)
	newsletterSvc := service.NewNewsletterService(repo, smtpMailer, templates, cfg.Site)
	blogSvc := service.NewBlogService(repo)

	router := h.NewRouter(
		h.NewCartHandler(cartSvc, repo),
		h.NewCheckoutHandler(checkoutSvc),
		h.NewOrdersHandler(orderSvc),
		h.NewProductHandler(catalogSvc),
		h.NewMarketingHandler(newsletterSvc, blogSvc),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Oraagh storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
