package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/yi-nology/itam/biz/handler"
	"github.com/yi-nology/itam/biz/middleware"
	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/config"
	"github.com/yi-nology/itam/pkg/constants"
	"github.com/yi-nology/itam/pkg/lock"
)

// Register configures global middleware and every HTTP route of the service.
// notifyLock may be nil when Redis is disabled.
func Register(r *server.Hertz, cfg *config.Config, svc *service.Service, notifyLock lock.Locker) {
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(&cfg.CORS))
	r.GET("/ping", handler.Ping)

	base := r.Group(config.NormalizeBasePath(cfg.Server.BasePath) + "/api/v1")
	base.GET("/version", handler.GetVersion)

	authH := handler.NewAuthHandler(svc, cfg.Auth)
	requireAuth := middleware.RequireAuth(svc.Tokens(), cfg.Auth.CookieName)

	authGroup := base.Group("/auth")
	authGroup.POST("/login", authH.Login)
	authGroup.POST("/logout", authH.Logout)
	authGroup.GET("/me", requireAuth, authH.Me)

	registerAssetTypeRoutes(base, svc, requireAuth)
	registerAssetRoutes(base, svc, requireAuth)
	registerSoftwareRoutes(base, svc, requireAuth, notifyLock)
	registerAdminRoutes(base, svc, requireAuth)
	registerBrandRoutes(base, svc, requireAuth)
}

func registerAssetTypeRoutes(base *route.RouterGroup, svc *service.Service, requireAuth app.HandlerFunc) {
	h := handler.NewAssetTypeHandler(svc)
	manage := middleware.RequirePermission(svc, constants.PermissionAssetTypeManage)

	types := base.Group("/asset-types", requireAuth)
	types.GET("", h.List)
	types.GET("/:slug", h.Describe)
	types.POST("", manage, h.Create)
	types.PUT("/:slug", manage, h.Update)
	types.DELETE("/:slug", manage, h.Deactivate)
	types.POST("/:slug/fields", manage, h.AddField)
	types.PUT("/:slug/fields/:key", manage, h.UpdateField)
	types.DELETE("/:slug/fields/:key", manage, h.DeactivateField)
}

func registerAssetRoutes(base *route.RouterGroup, svc *service.Service, requireAuth app.HandlerFunc) {
	h := handler.NewAssetHandler(svc)

	assets := base.Group("/assets", requireAuth)
	assets.GET("", h.List)
	assets.POST("", h.Create)
	assets.POST("/import-csv", middleware.RequirePermission(svc, constants.PermissionAssetCSVImport), h.ImportCSV)
	assets.GET("/imports", h.ListImports)
	assets.GET("/:id", h.Get)
	assets.PATCH("/:id", h.Patch)
	assets.DELETE("/:id", h.Delete)
	assets.GET("/:id/attachments", h.ListAttachments)
	assets.POST("/:id/attachments", h.UploadAttachment)

	files := base.Group("/attachments", requireAuth)
	files.GET("/:fileID", h.GetAttachment)
	files.DELETE("/:fileID", h.DeleteAttachment)
}

func registerSoftwareRoutes(base *route.RouterGroup, svc *service.Service, requireAuth app.HandlerFunc, notifyLock lock.Locker) {
	h := handler.NewSoftwareHandler(svc)

	software := base.Group("/software", requireAuth)
	software.GET("", h.List)
	software.GET("/meta", h.Meta)
	software.POST("", h.Create)
	software.GET("/:id", h.Get)
	software.PUT("/:id", h.Update)
	software.DELETE("/:id", h.Delete)
	software.POST("/:id/assignments", h.CreateAssignment)
	software.PATCH("/:id/assignments/:assignmentID", h.ReturnAssignment)

	notifications := base.Group("/notifications", requireAuth)
	run := append(middleware.WriteLock(notifyLock), h.RunNotifications)
	notifications.POST("/run", run...)
	notifications.GET("/logs", h.ListNotificationLogs)
}

func registerAdminRoutes(base *route.RouterGroup, svc *service.Service, requireAuth app.HandlerFunc) {
	h := handler.NewAdminHandler(svc)

	admins := base.Group("/admins", requireAuth, middleware.RequireSuperAdmin(svc))
	admins.GET("", h.List)
	admins.POST("", h.Create)
	admins.PATCH("/:id", h.Update)
	admins.PATCH("/:id/permissions", h.SetPermission)
}

func registerBrandRoutes(base *route.RouterGroup, svc *service.Service, requireAuth app.HandlerFunc) {
	h := handler.NewBrandHandler(svc)

	brand := base.Group("/brand", requireAuth)
	brand.GET("", h.Get)
	brand.GET("/logo", h.Logo)
	brand.PATCH("", middleware.RequireSuperAdmin(svc), h.Update)
}
