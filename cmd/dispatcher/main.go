package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sameer7300/Oraagh/internal/config"
	"github.com/sameer7300/Oraagh/internal/dispatcher"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
)

// One reminder pass per invocation. Cron (or any scheduler) owns the
// hourly cadence.
func main() {
	dryRun := flag.Bool("dry-run", false, "log what would be sent without sending or mutating anything")
	timeout := flag.Duration("timeout", 10*time.Minute, "abort the pass after this long")
	flag.Parse()

	cfg := config.Load()

	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}
	templates, err := mailer.NewTemplateSet()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}

	d := dispatcher.New(repo, repo, repo, repo, smtpMailer, templates, cfg.Site, *dryRun)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := d.Run(ctx)
	if err != nil {
		log.Fatalf("dispatcher pass failed: %v", err)
	}
	log.Printf("sent %d cart and %d checkout reminders, refreshed %d records, %d failures",
		res.CartReminders, res.CheckoutReminders, res.RefreshedRecords, res.Failures)
}
