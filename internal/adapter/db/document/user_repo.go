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

	domain "directory-service/internal/domain/user"
	apperrors "directory-service/pkg/errors"
)

var (
	errUserNotFound = apperrors.NewNotFoundError("user", "User not found")
	errEmailTaken   = apperrors.NewAlreadyExistsError("user", "Email already registered")
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	FullName string             `bson:"full_name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Photo    string             `bson:"photo"`
	PlaceID  primitive.ObjectID `bson:"place_id"`
	Status   string             `bson:"status"`
}

type userViewDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	FullName     string             `bson:"full_name"`
	Email        string             `bson:"email"`
	Photo        string             `bson:"photo"`
	PlaceID      primitive.ObjectID `bson:"place_id"`
	PlaceName    string             `bson:"place_name"`
	DistrictID   primitive.ObjectID `bson:"district_id"`
	DistrictName string             `bson:"district_name"`
	Status       string             `bson:"status"`
}

// UserRepo implements the user Repository on the users collection.
type UserRepo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *mongo.Database, log *zap.Logger) *UserRepo {
	return &UserRepo{coll: db.Collection(UserCollection), log: log}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}
	placeID, err := parseObjectID(u.PlaceID)
	if err != nil {
		return "", err
	}

	res, err := r.coll.InsertOne(ctx, userDoc{
		FullName: u.FullName,
		Email:    u.Email,
		Password: u.Password,
		Photo:    u.Photo,
		PlaceID:  placeID,
		Status:   u.Status,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errEmailTaken
		}
		r.log.Error("failed to insert user", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	id, err := insertedHex(res)
	if err != nil {
		return "", err
	}
	r.log.Info("user inserted", zap.String("id", id), zap.String("email", u.Email))
	return id, nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	u, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

// GetByEmail retrieves a user by exact email. It returns nil, nil when
// no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.log.Error("failed to find user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toUser(doc)
	return &u, nil
}

func toUser(doc userDoc) domain.User {
	return domain.User{
		ID:       doc.ID.Hex(),
		FullName: doc.FullName,
		Email:    doc.Email,
		Password: doc.Password,
		Photo:    doc.Photo,
		PlaceID:  hexOrEmpty(doc.PlaceID),
		Status:   doc.Status,
	}
}

// GetView retrieves a single user joined with place and district names.
func (r *UserRepo) GetView(ctx context.Context, id string) (*domain.View, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	views, err := r.aggregateViews(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errUserNotFound
	}
	return &views[0], nil
}

// ListViews returns every user joined with place and district names.
func (r *UserRepo) ListViews(ctx context.Context) ([]domain.View, error) {
	return r.aggregateViews(ctx, nil)
}

// List returns every stored user document, ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(sortByID))
	if err != nil {
		r.log.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	out := make([]domain.User, len(docs))
	for i, d := range docs {
		out[i] = toUser(d)
	}
	return out, nil
}

func (r *UserRepo) aggregateViews(ctx context.Context, match bson.D) ([]domain.View, error) {
	cur, err := r.coll.Aggregate(ctx, userViewPipeline(match))
	if err != nil {
		r.log.Error("failed to aggregate users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	out := make([]domain.View, len(docs))
	for i, d := range docs {
		out[i] = domain.View{
			ID:           d.ID.Hex(),
			FullName:     d.FullName,
			Email:        d.Email,
			Photo:        d.Photo,
			PlaceID:      hexOrEmpty(d.PlaceID),
			PlaceName:    d.PlaceName,
			DistrictID:   hexOrEmpty(d.DistrictID),
			DistrictName: d.DistrictName,
			Status:       d.Status,
		}
	}
	return out, nil
}

// Update applies the supplied fields of a partial update.
func (r *UserRepo) Update(ctx context.Context, id string, changes domain.Changes) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := bson.M{}
	if changes.FullName != nil {
		set["full_name"] = *changes.FullName
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.PlaceID != nil {
		placeID, err := parseObjectID(*changes.PlaceID)
		if err != nil {
			return err
		}
		set["place_id"] = placeID
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errEmailTaken
		}
		r.log.Error("failed to update user", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return errUserNotFound
	}

	r.log.Info("user updated", zap.String("id", id))
	return nil
}

// UpdatePassword replaces the stored password.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"password": password}})
	if err != nil {
		r.log.Error("failed to update user password", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to update user password: %w", err)
	}
	if res.MatchedCount == 0 {
		return errUserNotFound
	}

	r.log.Info("user password updated", zap.String("id", id))
	return nil
}
