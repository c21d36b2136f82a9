package repository

import (
	"context"
	"errors"
	"fmt"

	"centremart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository reads and writes accounts
type UserRepository struct {
	Collection *mongo.Collection
}

// NewUserRepository binds to db.users
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Collection: db.Collection("users")}
}

// FindByEmail looks up an account
func (ur *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var user models.User
	err := ur.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ErrEmailTaken is returned when an account already uses the email
var ErrEmailTaken = errors.New("email already registered")

// Create stores a new account and sets its id. The password must already be hashed.
func (ur *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	count, err := ur.Collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	result, err := ur.Collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// EnsureAdmin creates an admin account for email unless one exists
func (ur *UserRepository) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := ur.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_, err = ur.Collection.InsertOne(ctx, models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	return true, nil
}
