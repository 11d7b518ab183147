package ui

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stretchlp/stretchboard/internal/apiclient"
	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/config"
	"github.com/stretchlp/stretchboard/internal/db"
	"github.com/stretchlp/stretchboard/internal/export"
	"github.com/stretchlp/stretchboard/internal/schedule"
	"github.com/stretchlp/stretchboard/internal/scheduler"
)

// ensureSource opens the configured booking source: the REST backend
// (optionally behind redis) or the local SQLite store.
func (a *App) ensureSource() (booking.Source, error) {
	if a.source != nil {
		return a.source, nil
	}
	if a.config.Storage.Source == config.SourceSQLite {
		store, err := a.ensureStore()
		if err != nil {
			return nil, err
		}
		a.source = store
		return store, nil
	}

	log, err := a.logger()
	if err != nil {
		return nil, err
	}
	client := apiclient.New(apiclient.Options{
		BaseURL: a.config.API.BaseURL,
		Token:   a.config.API.Token,
		Timeout: a.config.API.Timeout(),
		RPS:     a.config.API.RPS,
		Burst:   a.config.API.Burst,
		Logger:  log,
	})
	if cache := a.config.Cache; cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cache.RedisAddr,
			Password: cache.RedisPassword,
			DB:       cache.RedisDB,
		})
		a.closers = append(a.closers, rdb)
		client.UseRedisCache(rdb, cache.TTL())
	}
	a.source = client
	return client, nil
}

// ensureStore opens the local SQLite store. Commands that create records
// always need it, whatever the board reads from.
func (a *App) ensureStore() (booking.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.closers = append(a.closers, store)
	a.store = store
	return store, nil
}

// layout returns the grid and layout policies from config.
func (a *App) layout() (schedule.TimeGrid, schedule.Options, error) {
	grid, err := schedule.NewTimeGrid(a.config.Schedule.StartHour, a.config.Schedule.EndHour)
	if err != nil {
		return schedule.TimeGrid{}, schedule.Options{}, err
	}
	grouping, err := schedule.ParseGroupPolicy(a.config.Schedule.Grouping)
	if err != nil {
		return schedule.TimeGrid{}, schedule.Options{}, err
	}
	columns, err := schedule.ParseColumnPolicy(a.config.Schedule.Columns)
	if err != nil {
		return schedule.TimeGrid{}, schedule.Options{}, err
	}
	return grid, schedule.Options{Grouping: grouping, Columns: columns}, nil
}

func (a *App) scheduler() (*scheduler.Scheduler, error) {
	grid, _, err := a.layout()
	if err != nil {
		return nil, err
	}
	return scheduler.New(grid), nil
}

func (a *App) exporter() (*export.Exporter, error) {
	grid, opts, err := a.layout()
	if err != nil {
		return nil, err
	}
	log, err := a.logger()
	if err != nil {
		return nil, err
	}
	return export.New(grid, opts, log), nil
}
