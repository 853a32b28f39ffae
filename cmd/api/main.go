package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"

	"marketing-agent-service/internal/config"
	"marketing-agent-service/internal/handlers"
	"marketing-agent-service/internal/routes"
	"marketing-agent-service/internal/services"
	"marketing-agent-service/internal/store"
)

func connectDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func databaseDoesNotExist(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 3D000: invalid_catalog_name
		return string(pqErr.Code) == "3D000"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") && strings.Contains(msg, "database")
}

func ensureDatabaseExists(ctx context.Context, cfg config.Config) error {
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if strings.TrimSpace(dbName) == "" {
		return errors.New("DATABASE_URL missing database name")
	}

	maint := *u
	maint.Path = "/" + strings.TrimSpace(cfg.MaintenanceDB)
	maintDB, err := connectDB(ctx, maint.String())
	if err != nil {
		return err
	}
	defer maintDB.Close()

	var exists int
	err = maintDB.QueryRowContext(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", dbName).Scan(&exists)
	if err == sql.ErrNoRows {
		exists = 0
		err = nil
	}
	if err != nil {
		return err
	}
	if exists == 1 {
		return nil
	}

	_, err = maintDB.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName))
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := connectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		if cfg.AutoCreateDB && databaseDoesNotExist(err) {
			if err2 := ensureDatabaseExists(ctx, cfg); err2 != nil {
				panic(err2)
			}
			db, err = connectDB(ctx, cfg.DatabaseURL)
		}
	}
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
		panic(err)
	}

	pg := store.NewPostgresStore(db)
	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	openai := &services.OpenAIClient{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, HTTP: hc}
	campaignAPI := &services.CampaignAPIClient{BaseURL: cfg.CampaignAPIBaseURL, APIKey: cfg.CampaignAPIKey, HTTP: hc}

	chatSvc := &services.ChatService{
		Store:        pg,
		OpenAI:       openai,
		Tools:        services.NewToolRunner(campaignAPI, pg),
		HistoryLimit: cfg.HistoryLimit,
	}

	chatHandlers := &handlers.ChatHandlers{Chat: chatSvc}
	historyHandlers := &handlers.HistoryHandlers{Store: pg}

	h := routes.NewRouter(cfg, chatHandlers, historyHandlers)

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := ":" + cfg.Port
	log.Printf("marketing-agent-service listening on %s (campaign_api=%s)", addr, cfg.CampaignAPIBaseURL)
	if err := http.ListenAndServe(addr, h); err != nil {
		panic(err)
	}
}
