package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

const collectionRoles = "roles"

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Role string             `bson:"role"`
}

// FindByName returns domain.ErrRoleNotFound when the role has not been seeded.
func (r *RoleRepository) FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRole
	if err := r.col.FindOne(ctx, bson.M{"role": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.RoleRecord{ID: doc.ID.Hex(), Name: domain.Role(doc.Role)}, nil
}

// Seed upserts every known role so that lookups by name succeed.
// It returns the number of roles that did not exist before.
func (r *RoleRepository) Seed(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := 0
	for _, role := range domain.KnownRoles() {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"role": string(role)},
			bson.M{"$setOnInsert": bson.M{"role": string(role)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return created, fmt.Errorf("seed role %s: %w", role, err)
		}
		if res.UpsertedCount > 0 {
			created++
		}
	}
	return created, nil
}

// EnsureIndexes makes role names unique.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
