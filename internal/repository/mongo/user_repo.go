package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/repository"
)

const usersCollection = "users"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	UserName  string             `bson:"userName"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Phone     string             `bson:"phone,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty"`
	Role      string             `bson:"role"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		UserName:  d.UserName,
		Email:     d.Email,
		Password:  d.Password,
		Phone:     d.Phone,
		PhotoURL:  d.PhotoURL,
		Role:      domain.Role(d.Role),
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type UserRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewUserRepo stores users in the "users" collection of db. Each call is
// bounded by timeout; zero disables the bound.
func NewUserRepo(db *mongo.Database, timeout time.Duration) *UserRepo {
	return &UserRepo{
		coll:    db.Collection(usersCollection),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique indexes on email and userName.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userName", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByLogin(ctx context.Context, value string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"isDeleted": false,
		"$or": bson.A{
			bson.M{"email": value},
			bson.M{"userName": value},
			bson.M{"phone": value},
		},
	})
}

func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, email, userName string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"$or": bson.A{
			bson.M{"email": email},
			bson.M{"userName": userName},
		},
	})
}

func (r *UserRepo) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	filter := bson.M{"_id": oid}
	if !includeDeleted {
		filter["isDeleted"] = false
	}
	return r.findOne(ctx, filter)
}

func (r *UserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"isDeleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		UserName:  user.UserName,
		Email:     user.Email,
		Password:  user.Password,
		Phone:     user.Phone,
		PhotoURL:  user.PhotoURL,
		Role:      string(user.Role),
		IsDeleted: user.IsDeleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, saveUpdate(user, now)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}

	user.UpdatedAt = now
	return nil
}

// saveUpdate builds the update for Save. Empty optional fields are unset so
// saved documents have the same shape as freshly inserted ones.
func saveUpdate(user *domain.User, now time.Time) bson.M {
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"role":      string(user.Role),
		"isDeleted": user.IsDeleted,
		"updatedAt": now,
	}
	unset := bson.M{}

	for field, value := range map[string]string{
		"password": user.Password,
		"phone":    user.Phone,
		"photoURL": user.PhotoURL,
	} {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
