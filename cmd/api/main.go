package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "pethotel/internal/adapters/http_server"
	"pethotel/internal/adapters/observability"
	redisad "pethotel/internal/adapters/redis"
	"pethotel/internal/adapters/token"
	"pethotel/internal/app"
	"pethotel/internal/shared"
	mysqlrepo "pethotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

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
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	handlers := &server.Handlers{
		Accounts: app.NewAccountService(repo, tokens),
		Bookings: app.NewBookingService(repo, repo, repo),
		Catalog:  app.NewCatalogService(repo, cache),
		Queries:  app.NewQueryService(repo, cache, cfg.CacheTTL),
		Tokens:   tokens,
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
