package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

type mongoPromotionRepo struct {
	coll *mongo.Collection
}

// NewMongoPromotionRepo, MongoDB implementation of PromotionRepository.
func NewMongoPromotionRepo(db *mongo.Database) PromotionRepository {
	return &mongoPromotionRepo{coll: db.Collection(database.CollPromotions)}
}

func (r *mongoPromotionRepo) Create(ctx context.Context, p *models.Promotion) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: promotion case id %s", pkg.ErrAlreadyExists, p.CaseID)
		}
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (r *mongoPromotionRepo) GetByCaseID(ctx context.Context, serverID, caseID string) (*models.Promotion, error) {
	var p models.Promotion
	err := r.coll.FindOne(ctx, bson.M{"server_id": serverID, "case_id": caseID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion by case id: %w", err)
	}
	return &p, nil
}

func (r *mongoPromotionRepo) ListBySubject(ctx context.Context, serverID, userID string, limit int) ([]models.Promotion, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"server_id": serverID, "subject_user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	var promotions []models.Promotion
	if err := cur.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}
	return promotions, nil
}
