// Package main: repository wiring.
//
// initRepositories picks the store driver. Both drivers satisfy the same
// repository interfaces, so nothing above this file knows which one runs.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/akinalp/mqvi-modbot/config"
	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/repository"
)

// Repositories, every repository instance.
type Repositories struct {
	GuildConfig repository.GuildConfigRepository
	Infraction  repository.InfractionRepository
	Promotion   repository.PromotionRepository

	// close releases the underlying connection.
	close func(ctx context.Context) error
}

// Close, closes the store connection.
func (r *Repositories) Close(ctx context.Context) error {
	return r.close(ctx)
}

// initRepositories, opens the configured store and builds the repositories on it.
func initRepositories(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		mdb, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		log.Printf("[main] store: mongo (database=%s)", cfg.MongoDatabase)

		return &Repositories{
			GuildConfig: repository.NewMongoGuildConfigRepo(mdb.DB),
			Infraction:  repository.NewMongoInfractionRepo(mdb.DB),
			Promotion:   repository.NewMongoPromotionRepo(mdb.DB),
			close:       mdb.Close,
		}, nil

	default:
		db, err := database.NewEmbedded(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite: %w", err)
		}
		log.Printf("[main] store: sqlite (path=%s)", cfg.Path)

		return &Repositories{
			GuildConfig: repository.NewSQLiteGuildConfigRepo(db.Conn),
			Infraction:  repository.NewSQLiteInfractionRepo(db.Conn),
			Promotion:   repository.NewSQLitePromotionRepo(db.Conn),
			close:       func(context.Context) error { return db.Close() },
		}, nil
	}
}
