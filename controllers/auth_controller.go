package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
	utils "github.com/daansetu/daansetu-backend/utils"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			DisplayName string `json:"display_name" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			Password    string `json:"password" binding:"required,min=8"`
			Role        string `json:"role" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		role := models.Role(input.Role)
		if role != models.RoleDonor && role != models.RoleNgo {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be donor or ngo"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := col.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check existing users"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		// Donors are trusted immediately; NGOs must pass admin verification.
		now := time.Now()
		user := models.User{
			ID:           primitive.NewObjectID(),
			DisplayName:  input.DisplayName,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			Verified:     role == models.RoleDonor,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if role == models.RoleNgo {
			user.VerificationStatus = models.VerificationPending
		}

		// The unique index on email is the authoritative check; the count
		// above only gives a friendlier error for the common case.
		if _, err := col.InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}

		respondWithTokens(c, cfg, &user, http.StatusCreated)
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		respondWithTokens(c, cfg, &user, http.StatusOK)
	}
}

// ---------------- GOOGLE SIGN-IN ----------------
func GoogleLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			IDToken string `json:"id_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info, err := utils.VerifyGoogleIDToken(input.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err = col.FindOne(ctx, bson.M{"email": strings.ToLower(info.Email)}).Decode(&user)
		if err != nil {
			// First sign-in: create a donor profile from the Google account.
			now := time.Now()
			user = models.User{
				ID:          primitive.NewObjectID(),
				DisplayName: info.Name,
				Email:       strings.ToLower(info.Email),
				Role:        models.RoleDonor,
				PhotoURL:    info.Picture,
				Verified:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if _, err := col.InsertOne(ctx, user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
				return
			}
		}

		respondWithTokens(c, cfg, &user, http.StatusOK)
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := utils.ValidateRefreshToken(cfg, input.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		access, err := utils.GenerateAccessToken(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": access})
	}
}

// ---------------- PASSWORD RESET ----------------
func RequestOTP(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			// Do not reveal whether the address is registered.
			c.JSON(http.StatusOK, gin.H{"message": "if the email is registered, a code has been sent"})
			return
		}

		otp, err := generateOTP(6)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate code"})
			return
		}

		expires := time.Now().Add(15 * time.Minute)
		_, err = col.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
			"reset_otp":         otp,
			"reset_otp_expires": expires,
			"updated_at":        time.Now(),
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store reset code"})
			return
		}

		// Send failures are only logged: a different status here would
		// reveal that the address is registered.
		go func(to, code string) {
			if err := utils.SendOTPEmail(to, code); err != nil {
				log.Printf("failed to send OTP email to %s: %v", to, err)
			}
		}(user.Email, otp)

		c.JSON(http.StatusOK, gin.H{"message": "if the email is registered, a code has been sent"})
	}
}

func ResetPassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email       string `json:"email" binding:"required,email"`
			OTP         string `json:"otp" binding:"required"`
			NewPassword string `json:"new_password" binding:"required,min=8"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
			return
		}

		if user.ResetOTP == "" || user.ResetOTP != input.OTP ||
			user.ResetOTPExpires == nil || time.Now().After(*user.ResetOTPExpires) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		_, err = col.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
			"$set":   bson.M{"password_hash": string(hash), "updated_at": time.Now()},
			"$unset": bson.M{"reset_otp": "", "reset_otp_expires": ""},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func respondWithTokens(c *gin.Context, cfg *config.Config, user *models.User, status int) {
	access, err := utils.GenerateAccessToken(cfg, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	refresh, err := utils.GenerateRefreshToken(cfg, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(status, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	})
}

func generateOTP(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
