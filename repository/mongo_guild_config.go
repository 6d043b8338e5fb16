package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/models"
)

type mongoGuildConfigRepo struct {
	coll *mongo.Collection
}

// NewMongoGuildConfigRepo, MongoDB implementation of GuildConfigRepository.
// One document per server, unique index on server_id.
func NewMongoGuildConfigRepo(db *mongo.Database) GuildConfigRepository {
	return &mongoGuildConfigRepo{coll: db.Collection(database.CollGuildConfigs)}
}

func (r *mongoGuildConfigRepo) GetOrCreate(ctx context.Context, serverID string) (*models.GuildConfig, error) {
	now := time.Now().UTC()

	// server_id comes from the equality filter on insert.
	update := bson.M{"$setOnInsert": bson.M{
		"promotable_role_ids": []string{},
		"created_at":          now,
		"updated_at":          now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cfg models.GuildConfig
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"server_id": serverID}, update, opts).Decode(&cfg)

	// Two concurrent upserts can both miss and one loses on the unique index;
	// the winner's document is there now.
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOne(ctx, bson.M{"server_id": serverID}).Decode(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	if cfg.PromotableRoleIDs == nil {
		cfg.PromotableRoleIDs = []string{}
	}

	return &cfg, nil
}

func (r *mongoGuildConfigRepo) SetStaffRole(ctx context.Context, serverID, roleID string) error {
	return r.set(ctx, serverID, "staff_role_id", roleID)
}

func (r *mongoGuildConfigRepo) SetActionChannel(ctx context.Context, serverID, channelID string) error {
	return r.set(ctx, serverID, "action_channel_id", channelID)
}

func (r *mongoGuildConfigRepo) SetLogChannel(ctx context.Context, serverID, channelID string) error {
	return r.set(ctx, serverID, "log_channel_id", channelID)
}

// SetPromotableRoles, a single $set replaces the array atomically.
func (r *mongoGuildConfigRepo) SetPromotableRoles(ctx context.Context, serverID string, roleIDs []string) error {
	if roleIDs == nil {
		roleIDs = []string{}
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"promotable_role_ids": roleIDs, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	return r.upsert(ctx, serverID, update, "promotable_role_ids")
}

func (r *mongoGuildConfigRepo) set(ctx context.Context, serverID, field, value string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{field: value, "updated_at": now},
		"$setOnInsert": bson.M{
			"promotable_role_ids": []string{},
			"created_at":          now,
		},
	}

	return r.upsert(ctx, serverID, update, field)
}

func (r *mongoGuildConfigRepo) upsert(ctx context.Context, serverID string, update bson.M, field string) error {
	opts := options.Update().SetUpsert(true)

	_, err := r.coll.UpdateOne(ctx, bson.M{"server_id": serverID}, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// lost an insert race; the document exists now, so a plain update applies
		_, err = r.coll.UpdateOne(ctx, bson.M{"server_id": serverID}, bson.M{"$set": update["$set"]})
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}

	return nil
}
