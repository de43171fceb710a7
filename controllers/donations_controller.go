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
func CreateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Authenticated user ---
		uid := c.GetString("user_id")
		donorID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		// --- Bind form fields ---
		var input struct {
			Title              string   `form:"title" binding:"required"`
			Description        string   `form:"description"`
			Category           string   `form:"category" binding:"required"`
			Quantity           int      `form:"quantity" binding:"required"`
			Address            string   `form:"address"`
			Lat                *float64 `form:"lat"`
			Lng                *float64 `form:"lng"`
			PickupInstructions string   `form:"pickup_instructions"`
			RequiresPickup     bool     `form:"requires_pickup"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		category := models.Category(input.Category)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		if input.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than 0"})
			return
		}

		// --- Handle file uploads ---
		form, err := c.MultipartForm()
		if err != nil && err != http.ErrNotMultipart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		var imageURLs []string
		if form != nil {
			files := form.File["images"] // key must be "images"
			for _, fileHeader := range files {
				file, err := fileHeader.Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
					return
				}

				url, err := utils.UploadToCloudinary(file, fileHeader)
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error":   "image upload failed",
						"details": err.Error(),
						"file":    fileHeader.Filename,
					})
					return
				}

				imageURLs = append(imageURLs, url)
			}
		}

		// --- Save donation ---
		now := time.Now()
		donation := models.Donation{
			ID:                 primitive.NewObjectID(),
			Title:              input.Title,
			Description:        input.Description,
			Category:           category,
			Quantity:           input.Quantity,
			Address:            input.Address,
			PickupInstructions: input.PickupInstructions,
			RequiresPickup:     input.RequiresPickup,
			DonorID:            donorID,
			DonorName:          c.GetString("display_name"),
			Status:             models.DonationAvailable,
			Images:             imageURLs,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if input.Lat != nil && input.Lng != nil {
			donation.Location = &models.Coordinates{Lat: *input.Lat, Lng: *input.Lng}
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create donation"})
			return
		}

		go notify(cfg, models.Notification{
			TargetRole: models.RoleNgo,
			Type:       models.NotifDonationCreated,
			Title:      "New donation listed",
			Message:    donation.DonorName + " listed \"" + donation.Title + "\"",
			Metadata:   map[string]string{"donation_id": donation.ID.Hex()},
		})

		c.JSON(http.StatusCreated, donation)
	}
}

// ---------------- LIST ----------------
func ListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if donorID := c.Query("donor_id"); donorID != "" {
			if oid, err := primitive.ObjectIDFromHex(donorID); err == nil {
				filter["donor_id"] = oid
			}
		}
		if claimedBy := c.Query("claimed_by"); claimedBy != "" {
			if oid, err := primitive.ObjectIDFromHex(claimedBy); err == nil {
				filter["claimed_by"] = oid
			}
		}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		// --- Fetch data ---
		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch donations"})
			return
		}

		var donations []models.Donation
		if err := cursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode donations"})
			return
		}

		if len(donations) == 0 {
			c.JSON(http.StatusOK, []models.Donation{})
			return
		}

		// --- Pick the most recently updated donation ---
		latest := donations[0]
		for _, d := range donations {
			if d.UpdatedAt.After(latest.UpdatedAt) {
				latest = d
			}
		}

		// --- Generate ETag from latest donation ---
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		// --- Add Last-Modified from latest donation ---
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, donations)
	}
}

// ---------------- NEARBY ----------------
// The store has no geo index, so this fetches every available donation and
// filters by haversine distance in application code. Records without a
// stored location are kept unconditionally.
func NearbyDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
			return
		}

		radiusKm := 10.0
		if r := c.Query("radius_km"); r != "" {
			parsed, err := strconv.ParseFloat(r, 64)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
				return
			}
			radiusKm = parsed
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := col.Find(ctx,
			bson.M{"status": models.DonationAvailable},
			options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch donations"})
			return
		}

		var candidates []models.Donation
		if err := cursor.All(ctx, &candidates); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode donations"})
			return
		}

		c.JSON(http.StatusOK, utils.NearbyDonations(candidates, lat, lng, radiusKm))
	}
}

// ---------------- GET ----------------
func GetDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		var donation models.Donation
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.MongoClient.Database(cfg.DBName).
			Collection("donations").
			FindOne(ctx, bson.M{"_id": oid}).
			Decode(&donation)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		etag := utils.GenerateETag(donation.ID, donation.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, donation)
	}
}

// ---------------- UPDATE ----------------
func UpdateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")
		if requesterID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		if role != string(models.RoleAdmin) && existing.DonorID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		// Only still-available donations may be edited.
		if existing.Status != models.DonationAvailable {
			c.JSON(http.StatusConflict, gin.H{"error": "only available donations can be edited"})
			return
		}

		var input struct {
			Title              string   `form:"title"`
			Description        string   `form:"description"`
			Category           string   `form:"category"`
			Quantity           int      `form:"quantity"`
			Address            string   `form:"address"`
			Lat                *float64 `form:"lat"`
			Lng                *float64 `form:"lng"`
			PickupInstructions string   `form:"pickup_instructions"`
			Images             []string `form:"images"` // existing image URLs to keep
		}

		if err := c.ShouldBind(&input); err != nil {
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
		if input.Category != "" {
			category := models.Category(input.Category)
			if !category.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			update["category"] = category
		}
		if input.Quantity > 0 {
			update["quantity"] = input.Quantity
		}
		if input.Address != "" {
			update["address"] = input.Address
		}
		if input.PickupInstructions != "" {
			update["pickup_instructions"] = input.PickupInstructions
		}
		if input.Lat != nil && input.Lng != nil {
			update["location"] = models.Coordinates{Lat: *input.Lat, Lng: *input.Lng}
		}

		// --- Handle new image uploads (multipart form) ---
		newImageURLs := []string{}
		form, _ := c.MultipartForm()
		if form != nil {
			files := form.File["new_images"] // key = "new_images"
			for _, fileHeader := range files {
				file, err := fileHeader.Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
					return
				}
				url, err := utils.UploadToCloudinary(file, fileHeader)
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
					return
				}
				newImageURLs = append(newImageURLs, url)
			}
		}

		if input.Images != nil || len(newImageURLs) > 0 {
			update["images"] = append(input.Images, newImageURLs...)
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update donation"})
			return
		}

		var updated models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated donation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "donation updated successfully",
			"donation": updated,
		})
	}
}

// ---------------- CLAIM ----------------
// The status check and the write are a single conditional update so two
// concurrent claims cannot both succeed.
func ClaimDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ngo, err := currentUser(ctx, cfg, c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if ngo.Role != models.RoleNgo {
			c.JSON(http.StatusForbidden, gin.H{"error": "only NGOs can claim donations"})
			return
		}
		if ngo.VerificationStatus != models.VerificationVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "NGO must be verified before claiming donations"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		now := time.Now()

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": models.DonationAvailable},
			bson.M{"$set": bson.M{
				"status":          models.DonationClaimed,
				"claimed_by":      ngo.ID,
				"claimed_by_name": ngo.DisplayName,
				"claimed_at":      now,
				"updated_at":      now,
			}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not claim donation"})
			return
		}

		if res.MatchedCount == 0 {
			// Either the donation does not exist or someone beat us to it.
			var existing models.Donation
			if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "donation is not available for claiming"})
			return
		}

		var claimed models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&claimed); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve claimed donation"})
			return
		}

		go notify(cfg, models.Notification{
			UserID:   claimed.DonorID,
			Type:     models.NotifDonationClaimed,
			Title:    "Donation claimed",
			Message:  ngo.DisplayName + " claimed \"" + claimed.Title + "\"",
			Metadata: map[string]string{"donation_id": claimed.ID.Hex()},
		})

		c.JSON(http.StatusOK, gin.H{"message": "donation claimed", "donation": claimed})
	}
}

// ---------------- DELIVER ----------------
func DeliverDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requesterID := c.GetString("user_id")
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		// The claiming NGO or the donor may mark delivery.
		if existing.ClaimedBy.Hex() != requesterID && existing.DonorID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		now := time.Now()
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": models.DonationClaimed},
			bson.M{"$set": bson.M{
				"status":       models.DonationDelivered,
				"delivered_at": now,
				"updated_at":   now,
			}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark donation delivered"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "only claimed donations can be delivered"})
			return
		}

		go notify(cfg, models.Notification{
			UserID:   deliveryNotifyTarget(existing, requesterID),
			Type:     models.NotifDonationDelivered,
			Title:    "Donation delivered",
			Message:  "\"" + existing.Title + "\" was marked as delivered",
			Metadata: map[string]string{"donation_id": existing.ID.Hex()},
		})

		c.JSON(http.StatusOK, gin.H{"message": "donation delivered", "id": oid.Hex()})
	}
}

// deliveryNotifyTarget picks the counterparty to tell about a delivery:
// a donor confirming delivery notifies the claiming NGO, and an NGO
// confirming notifies the donor.
func deliveryNotifyTarget(d models.Donation, requesterID string) primitive.ObjectID {
	if d.DonorID.Hex() == requesterID {
		return d.ClaimedBy
	}
	return d.DonorID
}

// ---------------- CANCEL ----------------
func CancelDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		if role != string(models.RoleAdmin) && existing.DonorID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		now := time.Now()
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": bson.M{"$in": []models.DonationStatus{
				models.DonationAvailable, models.DonationClaimed,
			}}},
			bson.M{"$set": bson.M{"status": models.DonationCancelled, "updated_at": now}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel donation"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "donation can no longer be cancelled"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "donation cancelled", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")
		if requesterID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Donation
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		if role != string(models.RoleAdmin) && existing.DonorID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete donation"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		for _, img := range existing.Images {
			utils.DeleteFromCloudinary(img)
		}

		c.JSON(http.StatusOK, gin.H{"message": "donation deleted successfully", "id": oid.Hex()})
	}
}
