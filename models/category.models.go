package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category controls a home page panel
type Category struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name    string             `bson:"name" json:"name"`
	Order   int                `bson:"order" json:"order"`
	Enabled bool               `bson:"enabled" json:"enabled"`
}

// Panel is a titled group of products shown on the home page
type Panel struct {
	Title    string    `json:"title"`
	Products []Product `json:"products"`
}
