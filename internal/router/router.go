package router

import (
	"net/http"

	"allvoter/internal/config"
	"allvoter/internal/handlers"
	"allvoter/internal/middleware"
	"allvoter/internal/services"
	"allvoter/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register wires services, handlers, and routes onto the engine. The
// database handle and config are injected so tests can register against
// their own instances.
func Register(r *gin.Engine, gdb *gorm.DB, cfg *config.Config) error {
	cache, err := utils.NewCache(128)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(gdb, cfg.DBTimeout, cfg.JWTSecret, cfg.TokenTTL)
	voteService := services.NewVoteService(gdb, cfg.DBTimeout)
	tallyService := services.NewTallyService(gdb, cfg.DBTimeout, cache)
	electionService := services.NewElectionService(gdb, cfg.DBTimeout)
	chatService := services.NewChatService(cfg)

	userHandler := handlers.NewUserHandler(authService)
	candidateHandler := handlers.NewCandidateHandler(gdb, voteService, tallyService)
	electionHandler := handlers.NewElectionHandler(electionService, tallyService)
	chatHandler := handlers.NewChatHandler(chatService)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, gdb)
	requireAdmin := middleware.RequireAdmin()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the Voting App API")
	})

	user := r.Group("/user")
	{
		user.POST("/signup", userHandler.Signup)
		user.POST("/login", userHandler.Login)
		user.GET("/profile", requireAuth, userHandler.Profile)
		user.PUT("/profile/password", requireAuth, userHandler.ChangePassword)
	}

	candidate := r.Group("/candidate")
	{
		candidate.GET("", candidateHandler.List)
		candidate.GET("/vote/count", candidateHandler.VoteCount)

		// Vote stays reachable over GET for legacy clients even though it
		// mutates state; POST is the preferred verb.
		candidate.GET("/vote/:id", requireAuth, candidateHandler.Vote)
		candidate.POST("/vote/:id", requireAuth, candidateHandler.Vote)

		candidate.POST("", requireAuth, requireAdmin, candidateHandler.Create)
		candidate.PUT("/:id", requireAuth, requireAdmin, candidateHandler.Update)
		candidate.DELETE("/:id", requireAuth, requireAdmin, candidateHandler.Delete)
	}

	election := r.Group("/election")
	{
		election.GET("", electionHandler.List)
		election.GET("/status/active", electionHandler.Active)
		election.GET("/:id", electionHandler.Get)
		election.GET("/:id/results", electionHandler.Results)

		admin := election.Group("", requireAuth, requireAdmin)
		{
			admin.POST("", electionHandler.Create)
			admin.PUT("/:id", electionHandler.Update)
			admin.DELETE("/:id", electionHandler.Delete)
			admin.POST("/:id/start", electionHandler.Start)
			admin.POST("/:id/end", electionHandler.End)
			admin.POST("/:id/candidates", electionHandler.AddCandidates)
			admin.DELETE("/:id/candidates/:candidateId", electionHandler.RemoveCandidate)
		}
	}

	r.POST("/gemini/chat", chatHandler.Chat)

	return nil
}
