package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

type UserRepository struct {
	DB *mongo.Database
}

func (r *UserRepository) coll() *mongo.Collection { return r.DB.Collection(UsersCollection) }

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.coll().InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Auth(apperr.CodeEmailTaken, "email already in use")
	}
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	var u models.User
	err := r.coll().FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user %s not found", what)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": uid}, uid)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

// ListUsers returns every user, newest first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetUserRole overwrites only the role field.
func (r *UserRepository) SetUserRole(ctx context.Context, uid string, role models.Role) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user %s not found", uid)
	}
	return nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{})
}
