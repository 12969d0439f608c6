package router

import (
	"CivicReport/internal/handler"
	"CivicReport/internal/middleware"
	"CivicReport/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User      *handler.UserHandler
	Community *handler.CommunityHandler
	Report    *handler.ReportHandler
	Device    *handler.DeviceHandler
	Sessions  *redis.SessionRepository
}

func InitRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.POST("/login", h.User.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware(h.Sessions))
	{
		authGroup.POST("/logout", h.User.Logout)
		authGroup.POST("/change-password", h.User.ChangePassword)
		authGroup.DELETE("/account", h.User.DeleteAccount)
		authGroup.GET("/notifications", h.Device.Notifications)
	}

	// 设备 token 注册表
	deviceGroup := r.Group("/api/device")
	deviceGroup.Use(middleware.AuthMiddleware(h.Sessions))
	{
		deviceGroup.POST("/register", h.Device.Register)
		deviceGroup.POST("/deactivate", h.Device.Deactivate)
		deviceGroup.GET("/list", h.Device.List)
	}

	// 社区与审核动作
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware(h.Sessions))
	{
		communityGroup.POST("/create", h.Community.Create)
		communityGroup.GET("/list", h.Community.List)
		communityGroup.POST("/:id/join", h.Community.Join)
		communityGroup.POST("/:id/leave", h.Community.Leave)
		communityGroup.POST("/:id/expel", h.Community.Expel)
		communityGroup.POST("/:id/suspend", h.Community.Suspend)
		communityGroup.POST("/:id/reactivate", h.Community.Reactivate)
		communityGroup.DELETE("/:id", h.Community.Delete)
	}

	// 上报内容
	reportGroup := r.Group("/api/report")
	reportGroup.Use(middleware.AuthMiddleware(h.Sessions))
	{
		reportGroup.POST("/create", h.Report.Create)
		reportGroup.DELETE("/:id", h.Report.Delete)
		reportGroup.GET("/list/:id", h.Report.ListByCommunity)
	}

	return r
}
