package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/social/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Profile      *apiHandler.ProfileHandler
	Relationship *apiHandler.RelationshipHandler
	Group        *apiHandler.GroupHandler
	Post         *apiHandler.PostHandler
	Conversation *apiHandler.ConversationHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	auth := authMiddleware

	r.GET("/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")

	// Auth routes
	v1.POST("/auth/register", handlers.Auth.Register)
	v1.POST("/auth/login", handlers.Auth.Login)
	v1.POST("/auth/logout", auth(handlers.Auth.Logout))
	v1.GET("/auth/me", auth(handlers.Auth.Me))

	// Profiles
	v1.GET("/profile", auth(handlers.Profile.GetProfile))
	v1.POST("/profile", auth(handlers.Profile.UpsertProfile))
	v1.DELETE("/profile", auth(handlers.Profile.DeleteProfile))
	v1.GET("/profiles", handlers.Profile.ListProfiles)
	v1.GET("/profiles/{user_id}", handlers.Profile.GetByUser)
	v1.PUT("/profile/experience", auth(handlers.Profile.AddExperience))
	v1.DELETE("/profile/experience/{id}", auth(handlers.Profile.RemoveExperience))
	v1.PUT("/profile/education", auth(handlers.Profile.AddEducation))
	v1.DELETE("/profile/education/{id}", auth(handlers.Profile.RemoveEducation))

	// Relationships
	v1.POST("/profile/following/{id}", auth(handlers.Relationship.Follow))
	v1.DELETE("/profile/following/{id}", auth(handlers.Relationship.Unfollow))
	v1.POST("/profile/friends/{id}", auth(handlers.Relationship.RequestFriend))
	v1.PUT("/profile/friends/{id}", auth(handlers.Relationship.AcceptFriend))
	v1.DELETE("/profile/friends/{id}", auth(handlers.Relationship.RemoveFriend))
	v1.DELETE("/profile/friend-requests/{id}", auth(handlers.Relationship.RejectFriend))
	v1.DELETE("/profile/friend-requests/sent/{id}", auth(handlers.Relationship.CancelRequest))

	// Groups
	v1.POST("/groups", auth(handlers.Group.Create))
	v1.GET("/groups", handlers.Group.List)
	v1.GET("/groups/{id}", handlers.Group.Get)
	v1.PUT("/groups/{id}", auth(handlers.Group.Update))
	v1.DELETE("/groups/{id}", auth(handlers.Group.Delete))
	v1.POST("/groups/{id}/join", auth(handlers.Group.RequestJoin))
	v1.PUT("/groups/{id}/requests/{user_id}", auth(handlers.Group.AcceptJoin))
	v1.DELETE("/groups/{id}/requests/{user_id}", auth(handlers.Group.RejectJoin))
	v1.GET("/groups/{id}/members", handlers.Group.Members)
	v1.DELETE("/groups/{id}/members/{user_id}", auth(handlers.Group.RemoveMember))
	v1.POST("/groups/{id}/managers", auth(handlers.Group.SetManager))
	v1.DELETE("/groups/{id}/managers/{user_id}", auth(handlers.Group.RemoveManager))

	// Posts and engagement
	v1.POST("/posts", auth(handlers.Post.Create))
	v1.GET("/posts", handlers.Post.List)
	v1.GET("/posts/{id}", handlers.Post.Get)
	v1.PUT("/posts/{id}", auth(handlers.Post.Update))
	v1.DELETE("/posts/{id}", auth(handlers.Post.Delete))
	v1.POST("/posts/{id}/like", auth(handlers.Post.Like))
	v1.DELETE("/posts/{id}/like", auth(handlers.Post.Unlike))
	v1.POST("/posts/{id}/comments", auth(handlers.Post.AddComment))
	v1.DELETE("/posts/{id}/comments/{comment_id}", auth(handlers.Post.RemoveComment))
	v1.POST("/posts/{id}/shares", auth(handlers.Post.Share))
	v1.DELETE("/posts/{id}/shares", auth(handlers.Post.Unshare))

	// Conversations
	v1.POST("/conversations", auth(handlers.Conversation.Send))
	v1.GET("/conversations", auth(handlers.Conversation.List))
	v1.GET("/conversations/{id}", auth(handlers.Conversation.Get))
	v1.PUT("/conversations/{id}/read", auth(handlers.Conversation.MarkRead))

	return r
}
