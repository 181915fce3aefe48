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

// UserRepository resolves admins and employees. Lookups that span both kinds
// (auth middleware, chat contacts) live here so the polymorphic resolution
// stays in one place.
type UserRepository struct {
	admins    *mongo.Collection
	employees *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	admins := db.Collection(collAdmins)
	employees := db.Collection(collEmployees)
	emailIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_idx"),
	}
	_, _ = admins.Indexes().CreateOne(context.Background(), emailIdx)
	_, _ = employees.Indexes().CreateOne(context.Background(), emailIdx)
	return &UserRepository{admins: admins, employees: employees}
}

func (r *UserRepository) CreateAdmin(ctx context.Context, a *models.Admin) error {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = "admin"
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.admins.InsertOne(ctx, a)
	return err
}

func (r *UserRepository) CreateEmployee(ctx context.Context, e *models.Employee) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Role == "" {
		e.Role = "employee"
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := r.employees.InsertOne(ctx, e)
	return err
}

func (r *UserRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := r.admins.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("admin: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var e models.Employee
	if err := r.employees.FindOne(ctx, bson.M{"email": email}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("employee: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *UserRepository) FindAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := r.admins.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("admin: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) FindEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	if err := r.employees.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("employee: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// ResolveContact loads display data for one identity, dispatching on kind.
func (r *UserRepository) ResolveContact(ctx context.Context, id models.Identity) (*models.Contact, error) {
	switch id.Kind {
	case models.KindAdmin:
		a, err := r.FindAdminByID(ctx, id.ID)
		if err != nil {
			return nil, err
		}
		return &models.Contact{Identity: id, Name: a.Name, Email: a.Email, Image: a.Image, Role: a.Role}, nil
	case models.KindEmployee:
		e, err := r.FindEmployeeByID(ctx, id.ID)
		if err != nil {
			return nil, err
		}
		return &models.Contact{Identity: id, Name: e.Name, Email: e.Email, Image: e.Image, Role: e.Role}, nil
	default:
		return nil, fmt.Errorf("unknown identity kind %q: %w", id.Kind, apperr.ErrBadRequest)
	}
}

// SearchContacts returns admins and employees matching the search term on
// name or email (case-insensitive), admins first.
func (r *UserRepository) SearchContacts(ctx context.Context, search string) ([]models.Contact, error) {
	filter := bson.M{}
	if search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		filter = bson.M{"$or": bson.A{bson.M{"name": regex}, bson.M{"email": regex}}}
	}

	var out []models.Contact
	cur, err := r.admins.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for cur.Next(ctx) {
		var a models.Admin
		if err := cur.Decode(&a); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		out = append(out, models.Contact{
			Identity: models.Identity{ID: a.ID, Kind: models.KindAdmin},
			Name:     a.Name, Email: a.Email, Image: a.Image, Role: a.Role,
		})
	}
	cur.Close(ctx)

	cur, err = r.employees.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var e models.Employee
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, models.Contact{
			Identity: models.Identity{ID: e.ID, Kind: models.KindEmployee},
			Name:     e.Name, Email: e.Email, Image: e.Image, Role: e.Role,
		})
	}
	return out, cur.Err()
}
