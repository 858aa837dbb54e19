package router

import (
	"bizhood/internal/handler"
	"bizhood/internal/middleware"
	"bizhood/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User      *handler.UserHandler
	Community *handler.CommunityHandler
	Business  *handler.BusinessHandler
	Post      *handler.PostHandler
}

func InitRouter(h Handlers, issuer *pkg.Issuer, sessions middleware.SessionReader) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(issuer, sessions)

	// 认证相关接口
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/devicelogin", h.User.DeviceLogin)
		authGroup.POST("/login", h.User.Login)
		authGroup.POST("/refresh", h.User.Refresh)
		authGroup.POST("/logout", auth, h.User.Logout)
	}

	// 用户相关接口
	userGroup := r.Group("/api/users")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.GET("/:device_id", auth, h.User.GetProfile)
		userGroup.DELETE("/me", auth, h.User.DeleteMe)
	}

	// 社区相关接口
	commGroup := r.Group("/api/comm")
	commGroup.Use(auth)
	{
		commGroup.POST("/create", h.Community.Create)
		commGroup.DELETE("/del/:community_id", h.Community.Delete)
		commGroup.POST("/join/:community_id", h.Community.Join)
		commGroup.POST("/leave/:community_id", h.Community.Leave)
		commGroup.GET("/joined", h.Community.Joined)
		commGroup.GET("/list", h.Community.List)
	}

	// 商家相关接口
	bizGroup := r.Group("/api/business")
	bizGroup.Use(auth)
	{
		bizGroup.POST("/create", h.Business.Create)
		bizGroup.POST("/edit/:business_id", h.Business.Edit)
		bizGroup.DELETE("/:business_id", h.Business.Delete)
		bizGroup.GET("/newcomers/:n", h.Business.Newcomers)
		bizGroup.GET("/:business_id", h.Business.Get)
		bizGroup.POST("/verify", h.Business.Verify)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(auth)
	{
		postGroup.POST("/", h.Post.Create)
		postGroup.GET("/:post_id", h.Post.Get)
		postGroup.POST("/edit/:post_id", h.Post.Edit)
		postGroup.DELETE("/:post_id", h.Post.Delete)
		postGroup.POST("/vote", h.Post.Vote)
		postGroup.GET("/list/:community_id", h.Post.ListByCommunity)
	}

	return r
}
