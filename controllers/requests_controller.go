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
	utils "github.com/daansetu/daansetu-backend/utils"
)

// ---------------- CREATE ----------------
func CreateRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ngo, err := currentUser(ctx, cfg, c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if ngo.Role != models.RoleNgo {
			c.JSON(http.StatusForbidden, gin.H{"error": "only NGOs can create requests"})
			return
		}
		if ngo.VerificationStatus != models.VerificationVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "NGO must be verified before creating requests"})
			return
		}

		var input struct {
			Title            string   `json:"title" binding:"required"`
			Description      string   `json:"description"`
			Category         string   `json:"category" binding:"required"`
			Quantity         int      `json:"quantity" binding:"required"`
			BeneficiaryCount int      `json:"beneficiary_count"`
			Urgency          string   `json:"urgency" binding:"required"`
			Deadline         *string  `json:"deadline"` // string for binding, convert later
			Address          string   `json:"address"`
			Lat              *float64 `json:"lat"`
			Lng              *float64 `json:"lng"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		category := models.Category(input.Category)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		urgency := models.Urgency(input.Urgency)
		if !urgency.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "urgency must be low, medium or high"})
			return
		}
		if input.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than 0"})
			return
		}

		// --- Parse deadline if provided ---
		var deadline *time.Time
		if input.Deadline != nil && *input.Deadline != "" {
			parsed, err := time.Parse(time.RFC3339, *input.Deadline)
			if err != nil {
				layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
				for _, layout := range layouts {
					if t, e := time.Parse(layout, *input.Deadline); e == nil {
						parsed = t
						err = nil
						break
					}
				}
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline format, use RFC3339 or YYYY-MM-DD"})
					return
				}
			}
			deadline = &parsed
		}

		now := time.Now()
		request := models.Request{
			ID:               primitive.NewObjectID(),
			Title:            input.Title,
			Description:      input.Description,
			Category:         category,
			Quantity:         input.Quantity,
			BeneficiaryCount: input.BeneficiaryCount,
			Urgency:          urgency,
			Deadline:         deadline,
			Address:          input.Address,
			NgoID:            ngo.ID,
			NgoName:          ngo.DisplayName,
			Status:           models.RequestOpen,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if input.Lat != nil && input.Lng != nil {
			request.Location = &models.Coordinates{Lat: *input.Lat, Lng: *input.Lng}
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		if _, err := col.InsertOne(ctx, request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create request"})
			return
		}

		go notify(cfg, models.Notification{
			TargetRole: models.RoleDonor,
			Type:       models.NotifRequestCreated,
			Title:      "New NGO request",
			Message:    ngo.DisplayName + " requested \"" + request.Title + "\"",
			Metadata:   map[string]string{"request_id": request.ID.Hex()},
		})

		c.JSON(http.StatusCreated, request)
	}
}

// ---------------- LIST ----------------
func ListRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if urgency := c.Query("urgency"); urgency != "" {
			filter["urgency"] = urgency
		}
		if ngoID := c.Query("ngo_id"); ngoID != "" {
			if oid, err := primitive.ObjectIDFromHex(ngoID); err == nil {
				filter["ngo_id"] = oid
			}
		}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch requests"})
			return
		}

		var requests []models.Request
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode requests"})
			return
		}

		if len(requests) == 0 {
			c.JSON(http.StatusOK, []models.Request{})
			return
		}

		latest := requests[0]
		for _, r := range requests {
			if r.UpdatedAt.After(latest.UpdatedAt) {
				latest = r
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, requests)
	}
}

// ---------------- NEARBY ----------------
func NearbyRequests(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
			return
		}

		radiusKm := 20.0
		if r := c.Query("radius_km"); r != "" {
			parsed, err := strconv.ParseFloat(r, 64)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
				return
			}
			radiusKm = parsed
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := col.Find(ctx,
			bson.M{"status": models.RequestOpen},
			options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch requests"})
			return
		}

		var candidates []models.Request
		if err := cursor.All(ctx, &candidates); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode requests"})
			return
		}

		c.JSON(http.StatusOK, utils.NearbyRequests(candidates, lat, lng, radiusKm))
	}
}

// ---------------- GET ----------------
func GetRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		var request models.Request
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.MongoClient.Database(cfg.DBName).
			Collection("requests").
			FindOne(ctx, bson.M{"_id": oid}).
			Decode(&request)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		etag := utils.GenerateETag(request.ID, request.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, request)
	}
}

// ---------------- UPDATE ----------------
func UpdateRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Request
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		if role != string(models.RoleAdmin) && existing.NgoID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		if existing.Status != models.RequestOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "only open requests can be edited"})
			return
		}

		var input struct {
			Title            string `json:"title"`
			Description      string `json:"description"`
			Quantity         int    `json:"quantity"`
			BeneficiaryCount int    `json:"beneficiary_count"`
			Urgency          string `json:"urgency"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.Quantity > 0 {
			update["quantity"] = input.Quantity
		}
		if input.BeneficiaryCount > 0 {
			update["beneficiary_count"] = input.BeneficiaryCount
		}
		if input.Urgency != "" {
			urgency := models.Urgency(input.Urgency)
			if !urgency.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "urgency must be low, medium or high"})
				return
			}
			update["urgency"] = urgency
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update request"})
			return
		}

		var updated models.Request
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "request updated successfully", "request": updated})
	}
}

// ---------------- FULFILL ----------------
// Same conditional-update shape as donation claiming: only an open request
// matches the filter, so concurrent fulfillers cannot both win.
func FulfillRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		donor, err := currentUser(ctx, cfg, c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if donor.Role != models.RoleDonor {
			c.JSON(http.StatusForbidden, gin.H{"error": "only donors can fulfill requests"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		now := time.Now()

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": models.RequestOpen},
			bson.M{"$set": bson.M{
				"status":            models.RequestFulfilled,
				"fulfilled_by":      donor.ID,
				"fulfilled_by_name": donor.DisplayName,
				"fulfilled_at":      now,
				"updated_at":        now,
			}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fulfill request"})
			return
		}

		if res.MatchedCount == 0 {
			var existing models.Request
			if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "request is no longer open"})
			return
		}

		var fulfilled models.Request
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&fulfilled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve fulfilled request"})
			return
		}

		go notify(cfg, models.Notification{
			UserID:   fulfilled.NgoID,
			Type:     models.NotifRequestFulfilled,
			Title:    "Request fulfilled",
			Message:  donor.DisplayName + " fulfilled \"" + fulfilled.Title + "\"",
			Metadata: map[string]string{"request_id": fulfilled.ID.Hex()},
		})

		c.JSON(http.StatusOK, gin.H{"message": "request fulfilled", "request": fulfilled})
	}
}

// ---------------- CLOSE ----------------
func CloseRequest(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Request
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		if role != string(models.RoleAdmin) && existing.NgoID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": models.RequestOpen},
			bson.M{"$set": bson.M{"status": models.RequestClosed, "updated_at": time.Now()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close request"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "only open requests can be closed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "request closed", "id": oid.Hex()})
	}
}

// ---------------- STATS ----------------
func RequestStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ngoID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("requests")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		open, err := col.CountDocuments(ctx, bson.M{"ngo_id": ngoID, "status": models.RequestOpen})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count requests"})
			return
		}
		fulfilled, err := col.CountDocuments(ctx, bson.M{"ngo_id": ngoID, "status": models.RequestFulfilled})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count requests"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"open": open, "fulfilled": fulfilled})
	}
}
