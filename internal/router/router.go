package router

import (
	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/handler"
)

// SetupRouter configures the gin engine and API routes.
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	group := r.Group("/api")
	group.Use(api.TrackVisitor())
	{
		authGroup := group.Group("/auth")
		{
			authGroup.POST("/register", api.Register)
			authGroup.POST("/login", api.Login)
			authGroup.GET("/me", api.RequireAuth(), api.Me)
		}

		// Public surface.
		group.GET("/posts", api.ListPosts)
		group.GET("/posts/:slug", api.GetPost)
		group.GET("/posts/:slug/comments", api.ListComments)
		group.GET("/users/:id", api.GetUser)
		group.GET("/stats/visitors", api.GetVisitorStats)

		authed := group.Group("")
		authed.Use(api.RequireAuth())
		{
			authed.POST("/posts", api.CreatePost)
			authed.PUT("/posts/:slug", api.UpdatePost)
			authed.DELETE("/posts/:slug", api.DeletePost)
			authed.POST("/posts/:slug/comments", api.CreateComment)
			authed.DELETE("/comments/:id", api.DeleteComment)

			authed.PUT("/users/me", api.UpdateProfile)
			authed.DELETE("/users/:id", api.DeleteUser)

			authed.POST("/uploads", api.UploadImage)

			authed.POST("/cards", api.SubmitCardApplication)
			authed.GET("/cards/me", api.GetMyCardApplication)
			authed.DELETE("/cards/:id", api.DeleteCardApplication)

			admin := authed.Group("")
			admin.Use(api.RequireAdmin())
			{
				admin.GET("/cards", api.ListCardApplications)
				admin.POST("/cards/:id/approve", api.ApproveCardApplication)
				admin.POST("/cards/:id/reject", api.RejectCardApplication)
			}
		}
	}

	return r
}
