package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"pethotel/internal/adapters/catalog"
	"pethotel/internal/adapters/observability"
	redisad "pethotel/internal/adapters/redis"
	"pethotel/internal/app"
	"pethotel/internal/shared"
	mysqlrepo "pethotel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	feed, err := catalog.New(cfg.FeedBase, cfg.FeedKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize partner feed client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	imp := app.NewImportService(feed, repo, cache)

	refs, err := feed.ListProperties(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list partner properties failed")
	}
	log.Info().Int("count", len(refs)).Msg("partner listing fetched")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, ref := range refs {
		ref := ref

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := imp.ImportProperty(ctx, ref); err != nil {
				log.Warn().Str("ref", ref).Err(err).Msg("import failed")
				return
			}
			log.Info().Str("ref", ref).Msg("import ok")
		}(ref)
	}

	wg.Wait()
	log.Info().Msg("import completed")
}
