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

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	coll := db.Collection(collTasks)
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("slug_idx"),
	})
	_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("status_idx"),
	})
	return &TaskRepository{coll: coll}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TaskWaiting
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TaskRepository) List(ctx context.Context, search string, page, limit int64) ([]*models.Task, int64, error) {
	query := bson.M{}
	if search != "" {
		query["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	tasks, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	count, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return tasks, count, nil
}

// Kanban groups tasks into board columns: upcoming (Waiting/Pending),
// in progress (Approved) and completed (Complete).
func (r *TaskRepository) Kanban(ctx context.Context) (upcoming, inProgress, completed []*models.Task, err error) {
	upcoming, err = r.find(ctx, bson.M{"status": bson.M{"$in": bson.A{models.TaskWaiting, models.TaskPending}}}, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	inProgress, err = r.find(ctx, bson.M{"status": models.TaskApproved}, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	completed, err = r.find(ctx, bson.M{"status": models.TaskComplete}, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return upcoming, inProgress, completed, nil
}

// MonthlyStats returns per-month counts (index 0 = January) of completed
// tasks by completion month and of all tasks by creation month.
func (r *TaskRepository) MonthlyStats(ctx context.Context) (complete, all [12]int64, err error) {
	cur, aggErr := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"complete": bson.A{
				bson.M{"$match": bson.M{"status": models.TaskComplete}},
				bson.M{"$group": bson.M{"_id": bson.M{"$month": "$updated_at"}, "count": bson.M{"$sum": 1}}},
			},
			"all": bson.A{
				bson.M{"$group": bson.M{"_id": bson.M{"$month": "$created_at"}, "count": bson.M{"$sum": 1}}},
			},
		}}},
	})
	if aggErr != nil {
		return complete, all, aggErr
	}
	defer cur.Close(ctx)

	type bucket struct {
		Month int64 `bson:"_id"`
		Count int64 `bson:"count"`
	}
	var rows []struct {
		Complete []bucket `bson:"complete"`
		All      []bucket `bson:"all"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return complete, all, err
	}
	if len(rows) == 0 {
		return complete, all, nil
	}
	for _, b := range rows[0].Complete {
		if b.Month >= 1 && b.Month <= 12 {
			complete[b.Month-1] = b.Count
		}
	}
	for _, b := range rows[0].All {
		if b.Month >= 1 && b.Month <= 12 {
			all[b.Month-1] = b.Count
		}
	}
	return complete, all, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}

func (r *TaskRepository) Recent(ctx context.Context, limit int64) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *TaskRepository) Update(ctx context.Context, id string, updates bson.M) (*models.Task, error) {
	updates["updated_at"] = time.Now().UTC()
	var t models.Task
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("task: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("task: %w", apperr.ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*models.Task, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.coll.Find(ctx, query, opts)
	} else {
		cur, err = r.coll.Find(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Task
	for cur.Next(ctx) {
		var t models.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}
