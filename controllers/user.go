package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"centremart/models"
	"centremart/repository"
	"centremart/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore looks up and creates accounts
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// UserController handles sign-up and sign-in
type UserController struct {
	Users  UserStore
	Logger *zap.Logger
}

// NewUserController creates a new UserController
func NewUserController(users UserStore, logger *zap.Logger) *UserController {
	return &UserController{Users: users, Logger: logger}
}

// minPasswordLength is the shortest accepted password
const minPasswordLength = 6

// Register creates a customer account and signs it in
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || !strings.Contains(email, "@") {
		http.Error(w, "Name and a valid email are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLength {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user := models.User{Name: name, Email: email, Password: string(hashedPassword), Role: models.RoleCustomer}
	err = uc.Users.Create(r.Context(), &user)
	if errors.Is(err, repository.ErrEmailTaken) {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		uc.Logger.Error("Error creating user", zap.Error(err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	uc.Logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"token": token, "user": user})
}

// Login checks the credentials and returns a signed token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(credentials.Email))

	user, err := uc.Users.FindByEmail(r.Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		uc.Logger.Error("Error finding user", zap.Error(err))
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	uc.Logger.Info("User signed in", zap.String("email", user.Email), zap.String("role", user.Role))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
