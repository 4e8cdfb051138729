package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tour_backoffice/internal/adapters/observability"
	"tour_backoffice/internal/adapters/transportapi"
	"tour_backoffice/internal/app"
	"tour_backoffice/internal/shared"
	mysqlrepo "tour_backoffice/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	// ids on the command line take precedence over TRANSPORT_PRICE_LIST_IDS
	ids := cfg.PriceListIDs
	if len(os.Args) > 1 {
		ids = os.Args[1:]
	}
	if len(ids) == 0 {
		log.Fatal().Msg("no price list ids; pass them as arguments or set TRANSPORT_PRICE_LIST_IDS")
	}

	log.Info().
		Str("base", cfg.TransportBase).
		Int("workers", cfg.SyncWorkers).
		Int("lists", len(ids)).
		Msg("transport sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	client, err := transportapi.New(cfg.TransportBase, cfg.TransportKey, cfg.TransportRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize transport API client")
	}
	svc := app.NewTransportSyncService(client, repo)

	sem := semaphore.NewWeighted(int64(max(1, cfg.SyncWorkers)))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(listID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.SyncPriceList(ctx, listID); err != nil {
				failed.Add(1)
				log.Warn().Str("price_list", listID).Err(err).Msg("sync failed")
			}
		}(id)
	}

	wg.Wait()
	_ = db.Close()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Msg("transport sync finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("transport sync completed")
}
