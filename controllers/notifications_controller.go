package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
)

// ---------------- LIST ----------------
// Returns the caller's own notifications plus broadcasts to their role.
func ListNotifications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		limit := int64(50)
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.ParseInt(l, 10, 64); err == nil && parsed > 0 && parsed <= 200 {
				limit = parsed
			}
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("notifications")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := notificationRecipientFilter(userID, c.GetString("role"))
		if unread := c.Query("unread"); unread == "true" {
			filter["read"] = false
		}

		cursor, err := col.Find(ctx, filter,
			options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch notifications"})
			return
		}

		var notifications []models.Notification
		if err := cursor.All(ctx, &notifications); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode notifications"})
			return
		}

		if notifications == nil {
			notifications = []models.Notification{}
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// ---------------- MARK READ ----------------
func MarkNotificationRead(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("notifications")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Scoped to the caller so one user cannot flip another's notifications.
		filter := notificationRecipientFilter(userID, c.GetString("role"))
		filter["_id"] = oid

		res, err := col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"read": true}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notification"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "notification marked as read", "id": oid.Hex()})
	}
}

// ---------------- MARK ALL READ ----------------
func MarkAllNotificationsRead(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("notifications")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Covers role broadcasts too, so the unread count actually reaches zero.
		filter := notificationRecipientFilter(userID, c.GetString("role"))
		filter["read"] = false

		res, err := col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "notifications marked as read", "count": res.ModifiedCount})
	}
}
