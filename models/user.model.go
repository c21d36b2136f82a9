package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// RoleAdmin grants access to the back-office
	RoleAdmin = "admin"
	// RoleCustomer is given to accounts created through sign-up
	RoleCustomer = "customer"
)

// User is a customer or back-office account
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Role     string             `bson:"role" json:"role"` // "admin" or "customer"
}
