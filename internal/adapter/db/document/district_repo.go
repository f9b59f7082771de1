package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domain "directory-service/internal/domain/district"
	apperrors "directory-service/pkg/errors"
)

var errDistrictNotFound = apperrors.NewNotFoundError("district", "District not found")

type districtDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"district_name"`
}

// DistrictRepo implements the district Repository on the districts collection.
type DistrictRepo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewDistrictRepo creates a new instance of DistrictRepo.
func NewDistrictRepo(db *mongo.Database, log *zap.Logger) *DistrictRepo {
	return &DistrictRepo{coll: db.Collection(DistrictCollection), log: log}
}

// Create inserts a new district.
func (r *DistrictRepo) Create(ctx context.Context, d *domain.District) (string, error) {
	if d == nil {
		return "", errors.New("district cannot be nil")
	}

	res, err := r.coll.InsertOne(ctx, districtDoc{Name: d.Name})
	if err != nil {
		r.log.Error("failed to insert district", zap.Error(err))
		return "", fmt.Errorf("failed to create district: %w", err)
	}

	id, err := insertedHex(res)
	if err != nil {
		return "", err
	}
	r.log.Info("district inserted", zap.String("id", id))
	return id, nil
}

// GetByID retrieves a district by id.
func (r *DistrictRepo) GetByID(ctx context.Context, id string) (*domain.District, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc districtDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errDistrictNotFound
		}
		r.log.Error("failed to find district", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get district: %w", err)
	}

	return &domain.District{ID: doc.ID.Hex(), Name: doc.Name}, nil
}

// Update renames a district.
func (r *DistrictRepo) Update(ctx context.Context, d *domain.District) error {
	if d == nil {
		return errors.New("district cannot be nil")
	}
	oid, err := parseObjectID(d.ID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"district_name": d.Name}})
	if err != nil {
		r.log.Error("failed to update district", zap.Error(err), zap.String("id", d.ID))
		return fmt.Errorf("failed to update district: %w", err)
	}
	if res.MatchedCount == 0 {
		return errDistrictNotFound
	}

	r.log.Info("district updated", zap.String("id", d.ID))
	return nil
}

// Delete removes a district. Places referencing it are left as they are.
func (r *DistrictRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.Error("failed to delete district", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete district: %w", err)
	}
	if res.DeletedCount == 0 {
		return errDistrictNotFound
	}

	r.log.Info("district deleted", zap.String("id", id))
	return nil
}

// List returns every district in insertion order.
func (r *DistrictRepo) List(ctx context.Context) ([]domain.District, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(sortByID))
	if err != nil {
		r.log.Error("failed to list districts", zap.Error(err))
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}

	var docs []districtDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode districts: %w", err)
	}

	out := make([]domain.District, len(docs))
	for i, d := range docs {
		out[i] = domain.District{ID: d.ID.Hex(), Name: d.Name}
	}
	return out, nil
}
