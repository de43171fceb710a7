package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
	utils "github.com/daansetu/daansetu-backend/utils"
)

// ---------------- SUBMIT ----------------
// Writes the verification request and flips the NGO profile back to
// pending; a rejected NGO may re-submit.
func SubmitVerification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ngo, err := currentUser(ctx, cfg, c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if ngo.Role != models.RoleNgo {
			c.JSON(http.StatusForbidden, gin.H{"error": "only NGOs can submit verification"})
			return
		}
		if ngo.VerificationStatus == models.VerificationVerified {
			c.JSON(http.StatusConflict, gin.H{"error": "NGO is already verified"})
			return
		}

		db := cfg.MongoClient.Database(cfg.DBName)

		// One open submission per NGO; resubmission is for rejected NGOs.
		pending, err := db.Collection("verificationRequests").
			CountDocuments(ctx, pendingVerificationFilter(ngo.ID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check existing requests"})
			return
		}
		if pending > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a verification request is already pending review"})
			return
		}

		var input struct {
			RegistrationNumber string   `form:"registration_number" binding:"required"`
			Website            string   `form:"website"`
			FocusAreas         []string `form:"focus_areas"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// --- Handle document uploads ---
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		uploadDoc := func(key string) (string, error) {
			files := form.File[key]
			if len(files) == 0 {
				return "", nil
			}
			file, err := files[0].Open()
			if err != nil {
				return "", err
			}
			defer file.Close()
			return utils.UploadDocumentToCloudinary(file, files[0])
		}

		registrationDoc, err := uploadDoc("registration_document")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "document upload failed", "details": err.Error()})
			return
		}
		if registrationDoc == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "registration_document is required"})
			return
		}

		taxDoc, err := uploadDoc("tax_exemption_document")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "document upload failed", "details": err.Error()})
			return
		}

		request := models.VerificationRequest{
			ID:                   primitive.NewObjectID(),
			NgoID:                ngo.ID,
			RegistrationNumber:   input.RegistrationNumber,
			RegistrationDocument: registrationDoc,
			TaxExemptionDocument: taxDoc,
			Website:              input.Website,
			FocusAreas:           input.FocusAreas,
			Status:               models.VerificationRequestPending,
			SubmittedAt:          time.Now(),
		}

		if _, err := db.Collection("verificationRequests").InsertOne(ctx, request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit verification"})
			return
		}

		_, err = db.Collection("users").UpdateOne(ctx, bson.M{"_id": ngo.ID}, bson.M{"$set": bson.M{
			"verification_status":    models.VerificationPending,
			"registration_number":    input.RegistrationNumber,
			"registration_document":  registrationDoc,
			"tax_exemption_document": taxDoc,
			"updated_at":             time.Now(),
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}

		go notify(cfg, models.Notification{
			TargetRole: models.RoleAdmin,
			Type:       models.NotifVerificationRequest,
			Title:      "New NGO verification request",
			Message:    ngo.DisplayName + " submitted a verification request for review",
			Metadata:   map[string]string{"ngo_id": ngo.ID.Hex(), "request_id": request.ID.Hex()},
		})

		c.JSON(http.StatusCreated, request)
	}
}

func pendingVerificationFilter(ngoID primitive.ObjectID) bson.M {
	return bson.M{"ngo_id": ngoID, "status": models.VerificationRequestPending}
}

// ---------------- LIST ----------------
func ListVerifications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status == "" {
			status = string(models.VerificationRequestPending)
		}

		db := cfg.MongoClient.Database(cfg.DBName)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := db.Collection("verificationRequests").Find(ctx,
			bson.M{"status": status},
			options.Find().SetSort(bson.M{"submitted_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch verification requests"})
			return
		}

		var requests []models.VerificationRequest
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode verification requests"})
			return
		}

		// Enrich with NGO name/email for the review screen.
		users := db.Collection("users")
		for i := range requests {
			var ngo models.User
			if err := users.FindOne(ctx, bson.M{"_id": requests[i].NgoID}).Decode(&ngo); err == nil {
				requests[i].NgoName = ngo.DisplayName
				requests[i].NgoEmail = ngo.Email
			}
		}

		if requests == nil {
			requests = []models.VerificationRequest{}
		}
		c.JSON(http.StatusOK, requests)
	}
}

// ---------------- APPROVE ----------------
func ApproveVerification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		decideVerification(cfg, c, true, "")
	}
}

// ---------------- REJECT ----------------
func RejectVerification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		decideVerification(cfg, c, false, input.Reason)
	}
}

// decideVerification updates the verification request and the NGO profile
// in a single transaction. The notification and email afterwards are
// best-effort: they may fail without undoing the decision.
func decideVerification(cfg *config.Config, c *gin.Context, approved bool, reason string) {
	adminID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification request id"})
		return
	}

	db := cfg.MongoClient.Database(cfg.DBName)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var request models.VerificationRequest
	if err := db.Collection("verificationRequests").FindOne(ctx, bson.M{"_id": oid}).Decode(&request); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "verification request not found"})
		return
	}
	if request.Status != models.VerificationRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "verification request already decided"})
		return
	}

	now := time.Now()
	requestStatus := models.VerificationRequestApproved
	profileStatus := models.VerificationVerified
	if !approved {
		requestStatus = models.VerificationRequestRejected
		profileStatus = models.VerificationRejected
	}

	requestUpdate := bson.M{
		"status":     requestStatus,
		"decided_by": adminID,
		"decided_at": now,
	}
	profileUpdate := bson.M{
		"verification_status": profileStatus,
		"verified":            approved,
		"updated_at":          now,
	}
	if approved {
		profileUpdate["verified_at"] = now
	} else {
		requestUpdate["rejection_reason"] = reason
		profileUpdate["rejection_reason"] = reason
	}

	session, err := cfg.MongoClient.StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.Collection("verificationRequests").UpdateOne(sc,
			bson.M{"_id": oid}, bson.M{"$set": requestUpdate}); err != nil {
			return nil, err
		}
		if _, err := db.Collection("users").UpdateOne(sc,
			bson.M{"_id": request.NgoID}, bson.M{"$set": profileUpdate}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record verification decision"})
		return
	}

	// Best-effort side effects, outside the transaction.
	title := "Verification approved"
	message := "Congratulations! Your NGO verification has been approved. You now have full access to all platform features."
	if !approved {
		title = "Verification rejected"
		message = "Your NGO verification has been rejected. Reason: " + reason
	}
	go notify(cfg, models.Notification{
		UserID:   request.NgoID,
		Type:     models.NotifVerificationUpdated,
		Title:    title,
		Message:  message,
		Metadata: map[string]string{"request_id": oid.Hex()},
	})

	var ngo models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": request.NgoID}).Decode(&ngo); err == nil {
		go func() {
			if err := utils.SendVerificationDecisionEmail(ngo.Email, approved, reason); err != nil {
				log.Printf("failed to send verification decision email to %s: %v", ngo.Email, err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification " + string(requestStatus), "id": oid.Hex()})
}
