package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/config"
	adminsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/admin"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	inquirysvc "github.com/rukshanyomal11/CeylonHomes/internal/services/inquiries"
	listingsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/listings"
	ratesvc "github.com/rukshanyomal11/CeylonHomes/internal/services/rate"
	reportsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/reports"
	sellersvc "github.com/rukshanyomal11/CeylonHomes/internal/services/sellers"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	RateLimiter    *ratesvc.Limiter
	ListingService *listingsvc.Service
	SellerService  *sellersvc.Service
	AdminService   *adminsvc.Service
	ReportService  *reportsvc.Service
	InquiryService *inquirysvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.RateLimiter, deps.Logger)
	listingsHandler := handlers.NewListingsHandler(deps.ListingService, deps.Logger)
	sellerHandler := handlers.NewSellerHandler(deps.SellerService, deps.Config.Listings.MaxPhotoSizeMB, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.AdminService, deps.Logger)
	reportHandler := handlers.NewReportHandler(deps.ReportService, deps.Logger)
	inquiryHandler := handlers.NewInquiryHandler(deps.InquiryService, deps.Logger)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	sellerRoleMW := RequireRole("SELLER")
	adminRoleMW := RequireRole("ADMIN")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Get("/me", authHandler.Me)
		r.With(authMW).Put("/me", authHandler.UpdateProfile)
	})

	r.Route("/listings", func(r chi.Router) {
		r.Get("/search", listingsHandler.Search)
		r.Get("/latest", listingsHandler.Latest)
		r.Get("/{id}", listingsHandler.Get)
	})

	r.With(authMW).Post("/reports/listing/{listingId}", reportHandler.Create)
	r.With(authMW).Post("/inquiries/listing/{listingId}", inquiryHandler.Create)

	r.Route("/seller", func(r chi.Router) {
		r.Use(authMW, sellerRoleMW)
		r.Get("/listings", sellerHandler.List)
		r.Post("/listings", sellerHandler.Create)
		r.Get("/listings/summary", sellerHandler.Summary)
		r.Get("/listings/{id}", sellerHandler.Get)
		r.Put("/listings/{id}", sellerHandler.Update)
		r.Delete("/listings/{id}", sellerHandler.Delete)
		r.Post("/listings/{id}/mark-sold", sellerHandler.MarkSold)
		r.Post("/listings/{id}/mark-rented", sellerHandler.MarkRented)
		r.Post("/listings/{id}/archive", sellerHandler.Archive)
		r.Delete("/listings/photos/{photoId}", sellerHandler.DeletePhoto)
		r.Get("/inquiries", sellerHandler.Inquiries)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMW, adminRoleMW)
		r.Get("/stats", adminHandler.Stats)
		r.Get("/listings", adminHandler.Listings)
		r.Get("/listings/{id}", adminHandler.Listing)
		r.Post("/listings/{id}/approve", adminHandler.Approve)
		r.Post("/listings/{id}/reject", adminHandler.Reject)
		r.Post("/listings/{id}/suspend", adminHandler.Suspend)
		r.Post("/listings/{id}/unsuspend", adminHandler.Unsuspend)
		r.Get("/reports", adminHandler.Reports)
		r.Get("/reports/open", adminHandler.OpenReports)
		r.Patch("/reports/{id}/reviewed", adminHandler.MarkReportReviewed)
		r.Patch("/reports/{id}/closed", adminHandler.MarkReportClosed)
		r.Get("/approval-actions", adminHandler.Actions)
		r.Get("/approval-actions/listing/{id}", adminHandler.ListingActions)
	})
}
