package router

import (
	"sentry/internal/handlers"
	"sentry/internal/middleware"
	"sentry/internal/repository"
	"sentry/internal/services"
	"sentry/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB           *gorm.DB
	SessionName  string
	SessionStore sessions.Store
	Cache        *utils.Cache
}

// New builds the gin engine with middleware and routes.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	r.Use(sessions.Sessions(deps.SessionName, deps.SessionStore))

	users := repository.NewUserRepository(deps.DB)
	r.Use(middleware.LoadUser(users))

	RegisterRoutes(r, deps, users)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps, users repository.UserRepository) {
	projects := repository.NewProjectRepository(deps.DB)
	groups := repository.NewGroupRepository(deps.DB)
	bookmarkService := services.NewBookmarkService(repository.NewBookmarkRepository(deps.DB), deps.Cache)

	// Handlers
	authHandler := handlers.NewAuthHandler(services.NewAuthService(users))
	projectHandler := handlers.NewProjectHandler(projects, groups, bookmarkService)
	groupHandler := handlers.NewGroupHandler(groups, projects, bookmarkService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.GET("/healthz", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/0")

	// 公共路由 (Public Routes)
	api.POST("/auth/register", authHandler.Register) // 注册
	api.POST("/auth/login", authHandler.Login)       // 登录
	api.POST("/auth/logout", authHandler.Logout)     // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/users/me", authHandler.Me)                     // 当前用户
		authorized.GET("/users/me/bookmarks", bookmarkHandler.ListMine) // 我的收藏

		authorized.GET("/projects", projectHandler.List)                  // 项目列表
		authorized.POST("/projects", projectHandler.Create)               // 创建项目
		authorized.GET("/projects/:project_id", projectHandler.Get)       // 项目详情（id 或 slug）
		authorized.DELETE("/projects/:project_id", projectHandler.Delete) // 删除项目

		authorized.GET("/projects/:project_id/groups", groupHandler.List)                // 错误组列表（带收藏标注）
		authorized.POST("/projects/:project_id/groups", groupHandler.Create)             // 创建错误组
		authorized.DELETE("/projects/:project_id/groups/:group_id", groupHandler.Delete) // 删除错误组

		bookmark := authorized.Group("/projects/:project_id/groups/:group_id")
		bookmark.GET("/bookmark", bookmarkHandler.Get)            // 是否已收藏
		bookmark.PUT("/bookmark", bookmarkHandler.Create)         // 收藏
		bookmark.DELETE("/bookmark", bookmarkHandler.Delete)      // 取消收藏
		bookmark.POST("/bookmark/toggle", bookmarkHandler.Toggle) // 收藏/取消收藏
		bookmark.GET("/bookmarks", bookmarkHandler.ListByGroup)   // 收藏了该错误组的用户
	}
}
