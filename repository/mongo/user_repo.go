package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Email         string    `bson:"email"`
	EmailVerified bool      `bson:"email_verified"`
	PasswordHash  string    `bson:"password_hash"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository returns a MongoDB-backed user repository with a unique
// index on email.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection("Users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &userRepository{collection: collection}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return doc.toDomain(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return doc.toDomain(), nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.collection.InsertOne(ctx, userFromDomain(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, storeError(err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	user.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":           user.Name,
		"email":          user.Email,
		"email_verified": user.EmailVerified,
		"password_hash":  user.PasswordHash,
		"updated_at":     user.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailInUse
		}
		return storeError(err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		EmailVerified: d.EmailVerified,
		PasswordHash:  d.PasswordHash,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func userFromDomain(user *domain.User) userDocument {
	return userDocument{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		PasswordHash:  user.PasswordHash,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
