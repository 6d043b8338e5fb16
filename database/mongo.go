package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names of the Mongo store. Same data as the SQLite tables.
const (
	CollGuildConfigs = "guild_configs"
	CollInfractions  = "infractions"
	CollPromotions   = "promotions"
)

// MongoDB wraps a connected client and the add-on's database.
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongo, connects, pings and ensures the unique indexes the stores rely on.
//
// The indexes are the Mongo counterpart of the SQLite UNIQUE constraints:
// a duplicate case_id or server_id insert fails instead of overwriting.
func NewMongo(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &MongoDB{Client: client, DB: client.Database(dbName)}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("[database] connected to mongo database %s", dbName)
	return m, nil
}

// Close, disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		CollGuildConfigs: {
			{Keys: bson.D{{Key: "server_id", Value: 1}}, Options: unique},
		},
		CollInfractions: {
			{Keys: bson.D{{Key: "case_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "server_id", Value: 1}, {Key: "subject_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollPromotions: {
			{Keys: bson.D{{Key: "case_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "server_id", Value: 1}, {Key: "subject_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := m.DB.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	return nil
}
