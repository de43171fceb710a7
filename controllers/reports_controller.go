package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
)

// ---------------- CREATE ----------------
func CreateReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		reporterID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title         string `json:"title" binding:"required"`
			Description   string `json:"description" binding:"required"`
			ReferenceID   string `json:"reference_id" binding:"required"`
			ReferenceType string `json:"reference_type" binding:"required"`
			Priority      string `json:"priority"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		priority := models.Urgency(input.Priority)
		if input.Priority == "" {
			priority = models.UrgencyMedium
		} else if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be low, medium or high"})
			return
		}

		now := time.Now()
		report := models.Report{
			ID:            primitive.NewObjectID(),
			Title:         input.Title,
			Description:   input.Description,
			ReportedBy:    reporterID,
			ReporterRole:  models.Role(c.GetString("role")),
			ReferenceID:   input.ReferenceID,
			ReferenceType: input.ReferenceType,
			Priority:      priority,
			Status:        models.ReportPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("reports")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, report); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create report"})
			return
		}

		c.JSON(http.StatusCreated, report)
	}
}

// ---------------- LIST ----------------
// Without a status filter this returns actionable reports first: pending
// and investigating, by priority then age.
func ListReports(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("reports")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{"status": bson.M{"$in": []models.ReportStatus{
			models.ReportPending, models.ReportInvestigating,
		}}}
		if status := c.Query("status"); status != "" {
			filter = bson.M{"status": status}
		}

		cursor, err := col.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch reports"})
			return
		}

		var reports []models.Report
		if err := cursor.All(ctx, &reports); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode reports"})
			return
		}

		if reports == nil {
			reports = []models.Report{}
		}
		c.JSON(http.StatusOK, reports)
	}
}

// ---------------- UPDATE ----------------
func UpdateReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
			return
		}

		var input struct {
			Status     string `json:"status"`
			AssignedTo string `json:"assigned_to"`
			Resolution string `json:"resolution"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Status != "" {
			switch models.ReportStatus(input.Status) {
			case models.ReportPending, models.ReportInvestigating, models.ReportResolved, models.ReportClosed:
				update["status"] = input.Status
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report status"})
				return
			}
		}
		if input.AssignedTo != "" {
			assignee, err := primitive.ObjectIDFromHex(input.AssignedTo)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee id"})
				return
			}
			update["assigned_to"] = assignee
		}
		if input.Resolution != "" {
			update["resolution"] = input.Resolution
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("reports")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update report"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "report updated", "id": oid.Hex()})
	}
}
