package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/common/auth"
	"github.com/Brutalvik/smartai-shopping-sub000/controllers"
	"github.com/Brutalvik/smartai-shopping-sub000/metrics"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	BFF            *controllers.BFFController
	Session        *controllers.SessionController
	Onboarding     *controllers.OnboardingController
	Dashboard      *controllers.DashboardController
	SellerProducts *controllers.SellerProductController
	Cart           *controllers.CartController
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, validator *auth.TokenValidator) {
	r.GET("/health", ctrl.BFF.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authRequired := middleware.AuthMiddleware(validator)

	// Public routes - no auth required
	public := r.Group("/bff")
	{
		public.POST("/auth/login", ctrl.Session.Login)
		public.POST("/auth/logout", ctrl.Session.Logout)
		public.POST("/auth/refresh", ctrl.Session.Refresh)
		public.GET("/auth/status", ctrl.Session.Status)

		public.GET("/home", ctrl.BFF.Home)
		public.GET("/products", ctrl.BFF.Proxy(http.MethodGet, "/products"))
		public.GET("/products/:id", ctrl.BFF.ProductByID)
		public.GET("/categories", ctrl.BFF.Proxy(http.MethodGet, "/categories"))
	}

	// Signup/login wizard; the flow id travels in a cookie
	onboarding := r.Group("/bff/onboarding")
	{
		onboarding.POST("/start", ctrl.Onboarding.Start)
		onboarding.GET("", ctrl.Onboarding.Get)
		onboarding.POST("/restart", ctrl.Onboarding.Restart)
		onboarding.POST("/email", ctrl.Onboarding.SubmitEmail)
		onboarding.POST("/password", ctrl.Onboarding.SubmitPassword)
		onboarding.POST("/register", ctrl.Onboarding.Register)
		onboarding.POST("/social", ctrl.Onboarding.BeginSocial)
		onboarding.GET("/social/callback", ctrl.Onboarding.SocialCallback)
		onboarding.POST("/role", ctrl.Onboarding.SelectRole)
		onboarding.POST("/seller-profile", ctrl.Onboarding.SubmitSellerProfile)
	}

	// Protected routes - require authentication
	protected := r.Group("/bff")
	protected.Use(authRequired)
	{
		protected.GET("/profile", ctrl.BFF.Profile)
		protected.GET("/orders", ctrl.BFF.Proxy(http.MethodGet, "/orders"))
		protected.GET("/orders/:id", ctrl.BFF.Proxy(http.MethodGet, "/orders/:id"))

		protected.GET("/cart", ctrl.Cart.Get)
		protected.DELETE("/cart", ctrl.Cart.Clear)
		protected.POST("/cart/items", ctrl.Cart.AddItem)
		protected.PUT("/cart/items/:product_id", ctrl.Cart.SetQuantity)
		protected.DELETE("/cart/items/:product_id", ctrl.Cart.RemoveItem)
		protected.POST("/cart/checkout", ctrl.Cart.Checkout)
	}

	// Seller routes - authenticated sellers only
	seller := r.Group("/bff/seller")
	seller.Use(authRequired, middleware.RequireRole(models.RoleSeller))
	{
		seller.GET("/products", ctrl.SellerProducts.List)
		seller.GET("/products/upload-url", ctrl.SellerProducts.UploadURL)
		seller.GET("/products/:id", ctrl.SellerProducts.Get)
		seller.POST("/products", ctrl.SellerProducts.Create)
		seller.PUT("/products/:id", ctrl.SellerProducts.Update)
		seller.DELETE("/products/:id", ctrl.SellerProducts.Delete)

		seller.GET("/dashboard/sales", ctrl.Dashboard.Sales)
		seller.GET("/dashboard/products", ctrl.Dashboard.Products)
		seller.GET("/dashboard/summary", ctrl.Dashboard.Summary)
		seller.GET("/dashboard/views/:view", ctrl.Dashboard.GetView)
		seller.PUT("/dashboard/views/:view", ctrl.Dashboard.SaveView)
		seller.DELETE("/dashboard/views/:view", ctrl.Dashboard.ResetView)
	}
}
