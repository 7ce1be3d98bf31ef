package main

import (
	"net/http"

	"helpline-crm/internal/auth"
	"helpline-crm/internal/calls"
	"helpline-crm/internal/config"
	"helpline-crm/internal/contacts"
	"helpline-crm/internal/pbx"
	"helpline-crm/internal/rbac"
	"helpline-crm/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type appDeps struct {
	AuthMW       gin.HandlerFunc
	LoginLimiter gin.HandlerFunc

	Auth     auth.Handlers
	Users    users.Handlers
	Contacts contacts.Handlers
	Calls    calls.Handlers
	PBX      pbx.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic; handlers delegate to the internal
// modules.
func registerRoutes(r *gin.Engine, cfg config.Config, deps appDeps) {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(cfg.CORS.Origins) == 1 && cfg.CORS.Origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORS.Origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")

	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "HelplineOS CRM API", "status": "healthy"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", deps.Auth.Register)
		authGroup.POST("/login", deps.LoginLimiter, deps.Auth.Login)
		authGroup.GET("/me", deps.AuthMW, deps.Auth.Me)
	}

	// PBX webhook is secret-gated, not bearer-authenticated; the event feeds
	// below are staff-only.
	freepbx := api.Group("/freepbx")
	{
		freepbx.POST("/call-event", deps.PBX.Webhook)

		events := freepbx.Group("", deps.AuthMW, rbac.RequireAnyStaff())
		events.GET("/call-events", deps.PBX.ListEvents)
		events.GET("/call-events/:event_id", deps.PBX.GetEvent)
		events.PUT("/call-events/:event_id/mark-processed", deps.PBX.MarkProcessed)
		events.GET("/pending-calls", deps.PBX.Pending)
	}

	contactsGroup := api.Group("/contacts", deps.AuthMW, rbac.RequireAnyStaff())
	{
		contactsGroup.GET("", deps.Contacts.List)
		contactsGroup.POST("", deps.Contacts.Create)
		contactsGroup.GET("/by-phone/:phone_number", deps.Contacts.GetByPhone)
		contactsGroup.GET("/:contact_id", deps.Contacts.Get)
		contactsGroup.PUT("/:contact_id", deps.Contacts.Update)
		contactsGroup.DELETE("/:contact_id", deps.Contacts.Delete)
	}

	callsGroup := api.Group("/calls", deps.AuthMW, rbac.RequireAnyStaff())
	{
		callsGroup.GET("", deps.Calls.List)
		callsGroup.POST("", deps.Calls.Create)
		callsGroup.GET("/stats", deps.Calls.Stats)
		callsGroup.GET("/export/csv", deps.Calls.ExportCSV)
		callsGroup.GET("/:call_id", deps.Calls.Get)
		callsGroup.PUT("/:call_id", deps.Calls.Update)
	}

	admin := api.Group("/admin", deps.AuthMW, rbac.RequireAdmin())
	{
		admin.GET("/users", deps.Users.List)
		admin.POST("/users", deps.Users.Create)
		admin.GET("/users/:user_id", deps.Users.Get)
		admin.PUT("/users/:user_id", deps.Users.Update)
		admin.POST("/users/:user_id/reset-password", deps.Users.ResetPassword)
		admin.DELETE("/users/:user_id", deps.Users.Delete)
		admin.GET("/stats", deps.Users.Stats)
	}
}
