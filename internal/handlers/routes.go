package handlers

import (
	"condoparcel/internal/middleware"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	_ "condoparcel/docs"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router wires every handler group to its routes.
type Router struct {
	Health   *HealthHandlers
	Auth     *AuthHandlers
	Users    *UserHandlers
	Plans    *PlanHandlers
	Units    *UnitHandlers
	Packages *PackageHandlers
	Pickup   *PickupHandlers

	Tenancy services.TenancyService
	JWT     middleware.JWTOptions
}

func (r *Router) Register(e *echo.Echo) {
	versions := middleware.NewAPIVersions("v1")
	e.Use(versions.Resolve())

	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versions.Group(e, "v1")
	v1.GET("/plans", r.Plans.ListPlans)

	auth := v1.Group("/auth")
	auth.POST("/login", r.Auth.Login)
	auth.POST("/signup/condominium", r.Auth.SignupCondominium)
	auth.POST("/signup/resident", r.Auth.SignupResident)

	authenticate := middleware.Authenticate(r.JWT)
	v1.GET("/me", r.Auth.Me, authenticate)

	admin := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleDoorstaff)
	doorstaff := middleware.RequireRole(models.RoleDoorstaff)
	resident := middleware.RequireRole(models.RoleResident)

	condo := v1.Group("/condominiums/:"+middleware.CondominiumParam,
		authenticate,
		middleware.TenancyGuard(r.Tenancy),
		middleware.AuditMutations(),
	)

	condo.GET("/dashboard", r.Units.Dashboard, admin)
	condo.GET("/units", r.Units.ListUnits)
	condo.POST("/units", r.Units.AddUnit, admin)
	condo.GET("/units/:unitId/residents", r.Units.ListResidents, staff)
	condo.POST("/doorstaff", r.Users.CreateDoorstaff, admin)

	condo.POST("/packages", r.Packages.RegisterByResident, resident)
	condo.POST("/packages/receive", r.Packages.RegisterByDoorstaff, doorstaff)
	condo.GET("/packages/pending", r.Packages.ListPending)
	condo.GET("/packages/history", r.Packages.ListHistory)
	condo.POST("/packages/:packageId/cancel", r.Packages.Cancel, resident)

	condo.POST("/packages/:packageId/withdrawal", r.Pickup.RecordWithdrawal, doorstaff)
	condo.POST("/packages/:packageId/proof", r.Pickup.UploadProof, doorstaff, echoMiddleware.BodyLimit("11M"))
	condo.GET("/packages/:packageId/proof", r.Pickup.ProofURL, staff)
}
