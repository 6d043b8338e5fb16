package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

type mongoInfractionRepo struct {
	coll *mongo.Collection
}

// NewMongoInfractionRepo, MongoDB implementation of InfractionRepository.
func NewMongoInfractionRepo(db *mongo.Database) InfractionRepository {
	return &mongoInfractionRepo{coll: db.Collection(database.CollInfractions)}
}

func (r *mongoInfractionRepo) Create(ctx context.Context, inf *models.Infraction) error {
	if _, err := r.coll.InsertOne(ctx, inf); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: infraction case id %s", pkg.ErrAlreadyExists, inf.CaseID)
		}
		return fmt.Errorf("failed to create infraction: %w", err)
	}
	return nil
}

func (r *mongoInfractionRepo) GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Infraction, error) {
	var inf models.Infraction
	err := r.coll.FindOne(ctx, bson.M{"server_id": serverID, "case_id": caseID}).Decode(&inf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction by case id: %w", err)
	}
	return &inf, nil
}

func (r *mongoInfractionRepo) ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Infraction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"server_id": serverID, "subject_user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list infractions: %w", err)
	}

	var infractions []models.Infraction
	if err := cur.All(ctx, &infractions); err != nil {
		return nil, fmt.Errorf("failed to decode infractions: %w", err)
	}
	return infractions, nil
}

// Revoke, the active:true filter makes FindOneAndUpdate the conditional update.
func (r *mongoInfractionRepo) Revoke(ctx context.Context, serverID, caseID, revokedBy string, at time.Time) (*models.Infraction, error) {
	filter := bson.M{"server_id": serverID, "case_id": caseID, "active": true}
	update := bson.M{"$set": bson.M{
		"active":     false,
		"revoked_at": at,
		"revoked_by": revokedBy,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inf models.Infraction
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&inf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to revoke infraction: %w", err)
	}
	return &inf, nil
}
