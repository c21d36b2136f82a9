package controllers

import (
	"encoding/json"
	"net/http"

	"centremart/middleware"
	"centremart/session"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathID reads the {id} route variable as an ObjectID
func pathID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// sessionOf returns the request's browsing session, writing a 500 when the
// Session middleware did not run
func sessionOf(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
	}
	return s, ok
}
