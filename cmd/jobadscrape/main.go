package main

import (
	"context"
	"log"
	"time"

	"github.com/davidread/jobadscrape/internal/config"
	"github.com/davidread/jobadscrape/internal/pdf"
	"github.com/davidread/jobadscrape/internal/pipeline"
	"github.com/davidread/jobadscrape/internal/report"
	"github.com/davidread/jobadscrape/internal/repo"
	"github.com/davidread/jobadscrape/internal/scrape"
	"github.com/davidread/jobadscrape/internal/sheets"

	"github.com/joho/godotenv"
)

const configPath = "configs/config.yaml"

func main() {
	_ = godotenv.Load()

	// Credentials are checked here, before anything touches the network
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("config loaded: %d searches, repo %s/%s", len(cfg.Searches), cfg.Repo.Owner, cfg.Repo.Name)

	var notifier report.Notifier = report.Nop{}
	if cfg.TelegramEnabled() {
		tg, err := report.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("warning: telegram disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("starting job scraping...")

	// Publishers first: they are cheap and fail early. The renderer
	// starts a browser, so nothing that can log.Fatal comes after it.
	sheetStore, err := sheets.NewGoogleSheet(ctx, cfg.ServiceAccountJSON, cfg.SpreadsheetID, cfg.SheetRange)
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}
	sheetPub, err := sheets.NewPublisher(ctx, sheetStore)
	if err != nil {
		log.Fatalf("sheets: read existing rows: %v", err)
	}

	filePub, err := repo.NewPublisher(ctx, repo.NewGitHubStore(cfg.GitHubToken, cfg.Repo.Owner, cfg.Repo.Name, cfg.Repo.Branch))
	if err != nil {
		log.Fatalf("github: list repository tree: %v", err)
	}

	renderer, err := pdf.NewRenderer()
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	defer renderer.Close()

	fetcher := scrape.NewClient(cfg.BaseURL, cfg.UserAgent, cfg.RequestRate)

	run, runErr := pipeline.New(cfg, fetcher, renderer, sheetPub, filePub).Run(ctx)

	summary := run.Summary()
	log.Println("\n" + summary)
	if err := notifier.Notify(summary); err != nil {
		log.Printf("warning: could not send summary: %v", err)
	}

	if runErr != nil {
		renderer.Close() // log.Fatalf skips the defer
		log.Fatalf("run failed: %v", runErr)
	}
	log.Println("execution finished")
}
