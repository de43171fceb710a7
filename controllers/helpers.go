package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
)

// currentUser loads the authenticated caller's profile document.
func currentUser(ctx context.Context, cfg *config.Config, c *gin.Context) (*models.User, error) {
	uid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	var user models.User
	err = cfg.MongoClient.Database(cfg.DBName).
		Collection("users").
		FindOne(ctx, bson.M{"_id": uid}).
		Decode(&user)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return &user, nil
}

// notificationRecipientFilter matches the notifications a caller may see
// or act on: their own plus broadcasts to their role. Every notification
// query must be scoped through this filter.
func notificationRecipientFilter(userID primitive.ObjectID, role string) bson.M {
	return bson.M{"$or": []bson.M{
		{"user_id": userID},
		{"target_role": role},
	}}
}

// notify inserts a notification document. Failures are logged only:
// notifications are a side effect and must never fail the main operation.
func notify(cfg *config.Config, n models.Notification) {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	col := cfg.MongoClient.Database(cfg.DBName).Collection("notifications")
	if _, err := col.InsertOne(ctx, n); err != nil {
		log.Printf("failed to write notification (%s): %v", n.Type, err)
	}
}
