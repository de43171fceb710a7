package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
)

// ---------------- SUBMIT ----------------
// Public endpoint, no auth required.
func SubmitContactMessage(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Subject  string `json:"subject"`
			Message  string `json:"message" binding:"required"`
			UserType string `json:"user_type"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userType := input.UserType
		if userType == "" {
			userType = "general"
		}

		message := models.ContactMessage{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     input.Email,
			Subject:   input.Subject,
			Message:   input.Message,
			UserType:  userType,
			Status:    "new",
			CreatedAt: time.Now(),
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("contactMessages")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, message); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit message"})
			return
		}

		subject := input.Subject
		if subject == "" {
			subject = "No subject"
		}
		go notify(cfg, models.Notification{
			TargetRole: models.RoleAdmin,
			Type:       models.NotifMessageReceived,
			Title:      "New contact message",
			Message:    "New contact message from " + input.Name + ": " + subject,
			Metadata: map[string]string{
				"contact_message_id": message.ID.Hex(),
				"sender_email":       input.Email,
			},
		})

		c.JSON(http.StatusCreated, gin.H{"message": "message received", "id": message.ID.Hex()})
	}
}
