package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	domain "directory-service/internal/domain/place"
	apperrors "directory-service/pkg/errors"
)

var errPlaceNotFound = apperrors.NewNotFoundError("place", "Place not found")

type placeDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"place_name"`
	DistrictID primitive.ObjectID `bson:"district_id"`
}

type placeViewDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"place_name"`
	DistrictID   primitive.ObjectID `bson:"district_id"`
	DistrictName string             `bson:"district_name"`
}

// PlaceRepo implements the place Repository on the places collection.
type PlaceRepo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewPlaceRepo creates a new instance of PlaceRepo.
func NewPlaceRepo(db *mongo.Database, log *zap.Logger) *PlaceRepo {
	return &PlaceRepo{coll: db.Collection(PlaceCollection), log: log}
}

// Create inserts a new place.
func (r *PlaceRepo) Create(ctx context.Context, p *domain.Place) (string, error) {
	if p == nil {
		return "", errors.New("place cannot be nil")
	}
	districtID, err := parseObjectID(p.DistrictID)
	if err != nil {
		return "", err
	}

	res, err := r.coll.InsertOne(ctx, placeDoc{Name: p.Name, DistrictID: districtID})
	if err != nil {
		r.log.Error("failed to insert place", zap.Error(err))
		return "", fmt.Errorf("failed to create place: %w", err)
	}

	id, err := insertedHex(res)
	if err != nil {
		return "", err
	}
	r.log.Info("place inserted", zap.String("id", id))
	return id, nil
}

// GetByID retrieves a place by id.
func (r *PlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc placeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errPlaceNotFound
		}
		r.log.Error("failed to find place", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return &domain.Place{ID: doc.ID.Hex(), Name: doc.Name, DistrictID: hexOrEmpty(doc.DistrictID)}, nil
}

// Update replaces the name and district of a place.
func (r *PlaceRepo) Update(ctx context.Context, p *domain.Place) error {
	if p == nil {
		return errors.New("place cannot be nil")
	}
	oid, err := parseObjectID(p.ID)
	if err != nil {
		return err
	}
	districtID, err := parseObjectID(p.DistrictID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"place_name":  p.Name,
		"district_id": districtID,
	}})
	if err != nil {
		r.log.Error("failed to update place", zap.Error(err), zap.String("id", p.ID))
		return fmt.Errorf("failed to update place: %w", err)
	}
	if res.MatchedCount == 0 {
		return errPlaceNotFound
	}

	r.log.Info("place updated", zap.String("id", p.ID))
	return nil
}

// Delete removes a place. Users referencing it are left as they are.
func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.log.Error("failed to delete place", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if res.DeletedCount == 0 {
		return errPlaceNotFound
	}

	r.log.Info("place deleted", zap.String("id", id))
	return nil
}

// ListViews returns places joined with their district name.
func (r *PlaceRepo) ListViews(ctx context.Context, districtID string) ([]domain.View, error) {
	var match bson.D
	if districtID != "" {
		oid, err := parseObjectID(districtID)
		if err != nil {
			return nil, err
		}
		match = bson.D{{Key: "district_id", Value: oid}}
	}

	cur, err := r.coll.Aggregate(ctx, placeViewPipeline(match))
	if err != nil {
		r.log.Error("failed to aggregate places", zap.Error(err), zap.String("district_id", districtID))
		return nil, fmt.Errorf("failed to list places: %w", err)
	}

	var docs []placeViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode places: %w", err)
	}

	out := make([]domain.View, len(docs))
	for i, d := range docs {
		out[i] = domain.View{
			ID:           d.ID.Hex(),
			Name:         d.Name,
			DistrictID:   hexOrEmpty(d.DistrictID),
			DistrictName: d.DistrictName,
		}
	}
	return out, nil
}
