package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/daansetu/daansetu-backend/config"
	controllers "github.com/daansetu/daansetu-backend/controllers"
	middleware "github.com/daansetu/daansetu-backend/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))
	r.POST("/auth/google", controllers.GoogleLogin(cfg))
	r.POST("/auth/refresh", controllers.RefreshToken(cfg))

	// password reset
	r.POST("/auth/request-otp", controllers.RequestOTP(cfg))
	r.POST("/auth/reset-password", controllers.ResetPassword(cfg))

	// contact form
	r.POST("/contact", controllers.SubmitContactMessage(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.RequireRoles("admin")

	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("", adminOnly, controllers.ListUsers(cfg))
		users.GET("/:id", controllers.GetUser(cfg))
		users.PATCH("/:id", controllers.UpdateUser(cfg))
		users.DELETE("/:id", adminOnly, controllers.DeleteUser(cfg))
	}

	donations := r.Group("/donations")
	donations.Use(auth)
	{
		donations.POST("", middleware.RequireRoles("donor"), controllers.CreateDonation(cfg))
		donations.GET("", controllers.ListDonations(cfg))
		donations.GET("/nearby", controllers.NearbyDonations(cfg))
		donations.GET("/:id", controllers.GetDonation(cfg))
		donations.PATCH("/:id", controllers.UpdateDonation(cfg))
		donations.DELETE("/:id", controllers.DeleteDonation(cfg))
		donations.POST("/:id/claim", middleware.RequireRoles("ngo"), controllers.ClaimDonation(cfg))
		donations.POST("/:id/deliver", controllers.DeliverDonation(cfg))
		donations.POST("/:id/cancel", controllers.CancelDonation(cfg))
	}

	requests := r.Group("/requests")
	requests.Use(auth)
	{
		requests.POST("", middleware.RequireRoles("ngo"), controllers.CreateRequest(cfg))
		requests.GET("", controllers.ListRequests(cfg))
		requests.GET("/nearby", controllers.NearbyRequests(cfg))
		requests.GET("/stats", middleware.RequireRoles("ngo"), controllers.RequestStats(cfg))
		requests.GET("/:id", controllers.GetRequest(cfg))
		requests.PATCH("/:id", controllers.UpdateRequest(cfg))
		requests.POST("/:id/fulfill", middleware.RequireRoles("donor"), controllers.FulfillRequest(cfg))
		requests.POST("/:id/close", controllers.CloseRequest(cfg))
	}

	notifs := r.Group("/notifications")
	notifs.Use(auth)
	{
		notifs.GET("", controllers.ListNotifications(cfg))
		notifs.PATCH("/:id/read", controllers.MarkNotificationRead(cfg))
		notifs.POST("/read-all", controllers.MarkAllNotificationsRead(cfg))
	}

	verification := r.Group("/verification")
	verification.Use(auth)
	{
		verification.POST("", middleware.RequireRoles("ngo"), controllers.SubmitVerification(cfg))
	}

	reports := r.Group("/reports")
	reports.Use(auth)
	{
		reports.POST("", controllers.CreateReport(cfg))
		reports.GET("", adminOnly, controllers.ListReports(cfg))
		reports.PATCH("/:id", adminOnly, controllers.UpdateReport(cfg))
	}

	admin := r.Group("/admin")
	admin.Use(auth, adminOnly)
	{
		admin.GET("/verifications", controllers.ListVerifications(cfg))
		admin.POST("/verifications/:id/approve", controllers.ApproveVerification(cfg))
		admin.POST("/verifications/:id/reject", controllers.RejectVerification(cfg))
	}
}
