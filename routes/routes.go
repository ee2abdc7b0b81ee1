package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"workhive/handlers"
)

// RegisterAuthRoutes registers registration, login, logout, and the
// authorization-code callback. The session gate bounces authenticated users
// off /login and /register before these handlers run.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/login", hb.Auth.LoginPageHandler)
	r.POST("/login", hb.Auth.LoginHandler)
	r.POST("/register", hb.Auth.RegisterHandler)
	r.POST("/logout", hb.Auth.LogoutHandler)
	r.GET("/auth/callback", hb.Auth.CallbackHandler)
	r.GET("/unauthorized", hb.Auth.UnauthorizedHandler)
}

// RegisterDashboardRoutes registers the shared landing page.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/dashboard", hb.Dashboard.DashboardViewHandler)
}

// RegisterJobRoutes registers the job board and the client's own postings.
func RegisterJobRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", hb.Jobs.ListJobsHandler)
		jobs.POST("", hb.Jobs.PostJobHandler)
		jobs.GET("/:id", hb.Jobs.GetJobHandler)
		jobs.PATCH("/:id", hb.Jobs.UpdateJobHandler)
		jobs.POST("/:id/close", hb.Jobs.CloseJobHandler)
		jobs.GET("/:id/proposals", hb.Proposals.JobProposalsHandler)
	}
	r.GET("/my-jobs", hb.Jobs.MyJobsHandler)
}

// RegisterProposalRoutes registers the freelancer's proposal endpoints.
func RegisterProposalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	proposals := r.Group("/proposals")
	{
		proposals.GET("", hb.Proposals.MyProposalsHandler)
		proposals.POST("", hb.Proposals.SubmitProposalHandler)
		proposals.DELETE("/:id", hb.Proposals.WithdrawProposalHandler)
		proposals.POST("/:id/accept", hb.Proposals.AcceptProposalHandler)
	}
}

// RegisterContractRoutes registers contracts and the freelancer earnings view.
func RegisterContractRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	contracts := r.Group("/contracts")
	{
		contracts.GET("", hb.Contracts.ListContractsHandler)
		contracts.GET("/:id", hb.Contracts.GetContractHandler)
		contracts.POST("/:id/complete", hb.Contracts.CompleteContractHandler)
	}
	r.GET("/earnings", hb.Contracts.EarningsHandler)
}

// RegisterMessageRoutes registers direct messaging.
func RegisterMessageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	messages := r.Group("/messages")
	{
		messages.POST("", hb.Messages.SendMessageHandler)
		messages.GET("/:peer", hb.Messages.ConversationHandler)
	}
}

// RegisterTestimonialRoutes registers testimonials.
func RegisterTestimonialRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	testimonials := r.Group("/testimonials")
	{
		testimonials.POST("", hb.Testimonials.CreateTestimonialHandler)
		testimonials.GET("/:subject", hb.Testimonials.ListTestimonialsHandler)
	}
}

// RegisterProfileRoutes registers the authenticated user's profile, settings,
// and the freelancer directory.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	profile := r.Group("/profile")
	{
		profile.GET("", hb.Users.GetProfileHandler)
		profile.PATCH("", hb.Users.UpdateProfileHandler)
		profile.POST("/onboarding", hb.Users.CompleteOnboardingHandler)
		profile.POST("/avatar", hb.Users.UploadAvatarHandler)
	}
	r.GET("/settings", hb.Users.GetSettingsHandler)
	r.PATCH("/settings", hb.Users.UpdateSettingsHandler)

	freelancers := r.Group("/freelancers")
	{
		freelancers.GET("", hb.Users.ListFreelancersHandler)
		freelancers.GET("/:id", hb.Users.GetFreelancerHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations. The session
// gate already restricts /admin to the admin role.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/admin")
	{
		admin.GET("", hb.Admin.AdminPanelHandler)
		admin.GET("/users", hb.Admin.ListUsersHandler)
		admin.PATCH("/users/:id/role", hb.Admin.SetRoleHandler)
		admin.DELETE("/jobs/:id", hb.Admin.DeleteJobHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and global
// middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterJobRoutes(r, hb)
	RegisterProposalRoutes(r, hb)
	RegisterContractRoutes(r, hb)
	RegisterMessageRoutes(r, hb)
	RegisterTestimonialRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
