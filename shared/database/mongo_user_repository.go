package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-server/shared/interfaces"
	"user-server/shared/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var _ interfaces.UserRepository = (*mongoUserRepository)(nil)

const usersCollection = "users"

// mongoUserDoc is the stored shape of a user. The UUID is kept as a string _id.
type mongoUserDoc struct {
	ID           string     `bson:"_id"`
	FullName     string     `bson:"full_name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	Role         string     `bson:"role"`
	Status       string     `bson:"status"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func (d *mongoUserDoc) toModel() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q in mongo: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         models.Role(d.Role),
		Status:       models.UserStatus(d.Status),
		LastLogin:    d.LastLogin,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type mongoUserRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoUserRepository creates a MongoDB-backed UserRepository and makes sure
// the unique email index and the listing index exist.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database, logger *zap.Logger) (interfaces.UserRepository, error) {
	r := &mongoUserRepository{
		coll:   db.Collection(usersCollection),
		logger: logger.Named("MongoUserRepo"),
	}

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_key"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_users_created_at"),
		},
	})
	if err != nil {
		r.logger.Error("Failed to create user indexes in mongo", zap.Error(err))
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	return r, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc mongoUserDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *mongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	prepareNewUser(user, time.Now().UTC())

	doc := mongoUserDoc{
		ID:           user.ID.String(),
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Status:       string(user.Status),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Attempted to create duplicate user by email", zap.String("email", user.Email))
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to create user in mongo", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in mongo: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return nil
}

func (r *mongoUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		r.logger.Error("Failed to get user by id from mongo", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from mongo: %w", err)
	}
	return user, err
}

func (r *mongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		r.logger.Error("Failed to get user by email from mongo", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from mongo: %w", err)
	}
	return user, err
}

func (r *mongoUserRepository) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		r.logger.Error("Failed to count users in mongo", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error("Failed to query users from mongo", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0, limit)
	for cursor.Next(ctx) {
		var doc mongoUserDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode user document: %w", err)
		}
		user, err := doc.toModel()
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := cursor.Err(); err != nil {
		r.logger.Error("Error iterating user documents", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating user documents: %w", err)
	}
	return users, total, nil
}

// findAndUpdate applies set to the user and returns the updated document.
func (r *mongoUserRepository) findAndUpdate(ctx context.Context, id uuid.UUID, set bson.D) (*models.User, error) {
	set = append(set, bson.E{Key: "updated_at", Value: time.Now().UTC()})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoUserDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to update user in mongo", zap.Error(err), zap.String("userID", id.String()))
		return nil, fmt.Errorf("failed to update user in mongo: %w", err)
	}
	return doc.toModel()
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.UserProfileUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return r.GetUserByID(ctx, id)
	}
	set := bson.D{}
	if upd.FullName != nil {
		set = append(set, bson.E{Key: "full_name", Value: *upd.FullName})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	return r.findAndUpdate(ctx, id, set)
}

func (r *mongoUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.findAndUpdate(ctx, id, bson.D{{Key: "password_hash", Value: passwordHash}})
	return err
}

func (r *mongoUserRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	return r.findAndUpdate(ctx, id, bson.D{{Key: "status", Value: string(status)}})
}

func (r *mongoUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{{Key: "$set", Value: bson.D{{Key: "last_login", Value: at.UTC()}}}})
	if err != nil {
		r.logger.Error("Failed to update last login in mongo", zap.Error(err), zap.String("userID", id.String()))
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
