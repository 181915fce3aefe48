package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	coll := db.Collection(collRoles)
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("slug_idx"),
	})
	return &RoleRepository{coll: coll}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	now := time.Now().UTC()
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	role.CreatedAt = now
	role.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, role)
	return err
}

func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Role
	for cur.Next(ctx) {
		var role models.Role
		if err := cur.Decode(&role); err != nil {
			return nil, err
		}
		out = append(out, &role)
	}
	return out, cur.Err()
}

func (r *RoleRepository) Get(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("role: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) FindBySlug(ctx context.Context, slug string) (*models.Role, error) {
	var role models.Role
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("role: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Update(ctx context.Context, id string, updates bson.M) (*models.Role, error) {
	updates["updated_at"] = time.Now().UTC()
	var role models.Role
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("role: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("role: %w", apperr.ErrNotFound)
	}
	return nil
}
