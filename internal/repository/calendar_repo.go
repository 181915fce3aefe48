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

type CalendarRepository struct {
	coll *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{coll: db.Collection(collCalendar)}
}

func (r *CalendarRepository) Create(ctx context.Context, e *models.CalendarEvent) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, e)
	return err
}

func (r *CalendarRepository) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.CalendarEvent
	for cur.Next(ctx) {
		var e models.CalendarEvent
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, cur.Err()
}

func (r *CalendarRepository) Update(ctx context.Context, id string, updates bson.M) (*models.CalendarEvent, error) {
	updates["updated_at"] = time.Now().UTC()
	var e models.CalendarEvent
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("event: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("event: %w", apperr.ErrNotFound)
	}
	return nil
}
