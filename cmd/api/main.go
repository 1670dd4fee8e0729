package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/ai"
	server "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/http_server"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/objstore"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/observability"
	redisad "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/redis"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/app"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/shared"
	mysqlrepo "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "inspection-api")

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTLSec)

	capability, err := ai.FromConfig(cfg.OpenAIKey, cfg.OpenAIModel, cfg.AIOverride, cfg.AIRateRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("AI capability init failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	uploads, err := objstore.New(ctx, cfg.MinioEndpoint, cfg.MinioBucket, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioSSL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("object store init failed")
	}

	workflow := app.NewWorkflowService(repo, repo, sessions, capability, capability)
	review := app.NewReviewService(repo, repo, repo, capability)
	access := app.NewAccessService(repo, repo)
	reports := app.NewReportService(repo, repo, access)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Workflow: workflow,
		Review:   review,
		Access:   access,
		Reports:  reports,
		Uploads:  uploads,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
