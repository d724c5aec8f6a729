package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mb-platform/user-service/internal/core/domain"
)

const usersCollection = "users"

// Index names are load-bearing: duplicate-key errors are mapped back to
// domain errors by the index that rejected the write.
const (
	idxUniqueName  = "name_unique"
	idxUniqueEmail = "email_unique"
	idxSingleAdmin = "single_admin"
)

// UserRepository is the MongoDB implementation of ports.UserRepository.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Save inserts the user when it has no ID, otherwise replaces the existing
// document. Unique-index violations come back as the matching domain error.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if user.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return nil, mapWriteError(err)
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("insert user: unexpected inserted id type %T", res.InsertedID)
		}
		doc.ID = oid
		return doc.toDomain(), nil
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// FindAll returns every user in the store's natural order.
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return r.exists(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, bson.M{"name": name})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *UserRepository) ExistsByRole(ctx context.Context, role string) (bool, error) {
	return r.exists(ctx, bson.M{"role": role})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("exists check: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the unique indexes the service relies on for
// correctness under concurrency: name and email uniqueness, plus a partial
// index that admits at most one ADMIN document.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName(idxUniqueName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(idxUniqueEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetName(idxSingleAdmin).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": domain.RoleAdmin}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// mapWriteError translates a duplicate-key error into the domain error for
// the index that rejected the write.
func mapWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("save user: %w", err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, idxSingleAdmin):
		return domain.ErrAdminExists
	case strings.Contains(msg, idxUniqueEmail):
		return domain.ErrEmailExists
	default:
		return domain.ErrNameExists
	}
}
