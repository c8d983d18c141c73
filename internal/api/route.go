package api

import (
	"CAConnect/internal/api/middleware"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/sms/send", group.UserHandler.SendSmsCode)
			userGroup.POST("/sms/check", group.UserHandler.CheckSmsCode)
			userGroup.GET("/:user_id/profile", group.UserHandler.GetUserProfile)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/profile", group.UserHandler.GetMyProfile)
				authGroup.PUT("/profile", group.UserHandler.UpdateProfile)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
			}

			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/:user_id/ban", group.UserHandler.BanUser)
				adminGroup.POST("/:user_id/unban", group.UserHandler.UnbanUser)
			}
		}

		caGroup := apiGroup.Group("/ca")
		{
			caGroup.GET("/search", group.CAHandler.Search)
			caGroup.GET("/suggest", group.CAHandler.Suggest)
			caGroup.GET("/:user_id/profile", group.CAHandler.GetProfile)

			authGroup := caGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleCA))
			{
				authGroup.POST("/profile", group.CAHandler.CreateProfile)
				authGroup.GET("/profile", group.CAHandler.GetMyProfile)
				authGroup.PUT("/profile", group.CAHandler.UpdateProfile)
				authGroup.GET("/metrics/7d", group.CAHandler.GetMetrics7Days)
				authGroup.GET("/metrics/30d", group.CAHandler.GetMetrics30Days)
			}

			adminGroup := caGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/:user_id/verify", group.CAHandler.VerifyProfile)
			}
		}

		leadGroup := apiGroup.Group("/leads")
		{
			boardGroup := leadGroup.Group("")
			boardGroup.Use(middleware.AuthOptionalMiddleware())
			{
				boardGroup.GET("", group.LeadHandler.GetOpenLeads)
				boardGroup.GET("/:lead_id/viewers", group.LeadHandler.GetViewerCount)
			}

			customerGroup := leadGroup.Group("")
			customerGroup.Use(middleware.AuthMiddleware())
			{
				customerGroup.POST("", group.LeadHandler.CreateLead)
				customerGroup.GET("/mine", group.LeadHandler.GetMyLeads)
				customerGroup.POST("/:lead_id/close", group.LeadHandler.CloseLead)
			}

			caGroup := leadGroup.Group("")
			caGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleCA))
			{
				caGroup.POST("/:lead_id/view", group.LeadHandler.ViewLead)
				caGroup.GET("/engaged", group.LeadHandler.GetEngagedLeads)
				caGroup.POST("/:lead_id/hide", group.LeadHandler.HideLead)
				caGroup.POST("/:lead_id/unhide", group.LeadHandler.UnhideLead)
				caGroup.PUT("/:lead_id/notes", group.LeadHandler.UpdateNotes)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/feed", group.PostHandler.GetFeed)
				authOptGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/comments/:post_id", group.PostHandler.GetComments)
				authOptGroup.GET("/sub-comments/:root_id", group.PostHandler.GetReplies)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/comments", group.PostHandler.CreateComment)
				authGroup.DELETE("/comments/:comment_id", group.PostHandler.DeleteComment)
			}
		}

		reactionGroup := apiGroup.Group("/reactions")
		{
			authOptGroup := reactionGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:target_type/:target_id", group.ReactionHandler.GetSummary)
				authOptGroup.GET("/:target_type/:target_id/reactors", group.ReactionHandler.ListReactors)
				authOptGroup.POST("/batch", group.ReactionHandler.GetSummaries)
			}

			authGroup := reactionGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/toggle", group.ReactionHandler.Toggle)
			}
		}

		contactGroup := apiGroup.Group("/contacts")
		contactGroup.Use(middleware.AuthMiddleware())
		{
			contactGroup.POST("", group.ContactHandler.CreateRequest)
			contactGroup.GET("/sent", group.ContactHandler.GetSent)

			caGroup := contactGroup.Group("")
			caGroup.Use(middleware.CheckRoles(consts.RoleCA))
			{
				caGroup.GET("/received", group.ContactHandler.GetReceived)
				caGroup.POST("/:request_id/accept", group.ContactHandler.AcceptRequest)
				caGroup.POST("/:request_id/decline", group.ContactHandler.DeclineRequest)
			}
		}

		inboxGroup := apiGroup.Group("/inbox")
		{
			inboxGroup.GET("/ws", group.WSHandler.Connect)

			authGroup := inboxGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/list", group.NotificationHandler.GetInbox)
				authGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				authGroup.POST("/read/:item_id", group.NotificationHandler.MarkRead)
				authGroup.POST("/read-all", group.NotificationHandler.MarkAllRead)
			}
		}
	}

	return r
}
