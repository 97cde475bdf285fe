package transport

import (
	"net/http"

	"threadstory-be/internal/admin"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/metrics"
	"threadstory-be/internal/middleware"
	"threadstory-be/internal/order"
	"threadstory-be/internal/payment"
	"threadstory-be/internal/product"
	"threadstory-be/internal/upload"
	"threadstory-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP layer serves.
type Deps struct {
	Products    product.Service
	Orders      order.Service
	Users       user.Service
	Admin       admin.Service
	Uploads     *upload.Service
	Payments    payment.Gateway
	Feed        Realtime
	Limiter     *middleware.Limiter
	FrontendURL string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(d.FrontendURL),
	)
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware())
	}

	r.Static(upload.PublicPrefix, d.Uploads.Dir())

	r.GET("/", func(c *gin.Context) {
		message(c, http.StatusOK, "Thread Story API is running!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "metrics": metrics.Snapshot()})
	})

	protect := middleware.Protect()
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")

	api.GET("/config/razorpay", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": d.Payments.KeyID()})
	})

	ah := &authHandler{users: d.Users}
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ah.register)
		authGroup.POST("/login", ah.login)
		authGroup.GET("/profile", protect, ah.profile)
		authGroup.PUT("/profile", protect, ah.updateProfile)
		authGroup.PUT("/change-password", protect, ah.changePassword)
	}

	ph := &productHandler{products: d.Products}
	products := api.Group("/products")
	{
		products.GET("", ph.list)
		products.GET("/:id", ph.get)
		products.POST("", protect, adminOnly, ph.create)
		products.PUT("/:id", protect, adminOnly, ph.update)
		products.DELETE("/:id", protect, adminOnly, ph.delete)
		products.POST("/:id/reviews", protect, ph.addReview)
	}

	oh := &orderHandler{orders: d.Orders}
	orders := api.Group("/orders", protect)
	{
		orders.POST("", oh.create)
		orders.GET("", adminOnly, oh.listAll)
		orders.POST("/razorpay", oh.createGatewayOrder)
		orders.GET("/myorders", oh.mine)
		orders.GET("/:id", oh.get)
		orders.PUT("/:id/pay", oh.pay)
		orders.PUT("/:id/deliver", adminOnly, oh.deliver)
		orders.PUT("/:id/status", adminOnly, oh.setStatus)
	}

	adh := &adminHandler{admin: d.Admin, feed: d.Feed}
	adminGroup := api.Group("/admin", protect, adminOnly)
	{
		adminGroup.GET("/stats", adh.stats)
		adminGroup.GET("/users", adh.users)
		adminGroup.GET("/users/:id", adh.userDetail)
		adminGroup.PUT("/users/:id", adh.updateUser)
		adminGroup.DELETE("/users/:id", adh.deleteUser)
		adminGroup.GET("/products/export", adh.exportProducts)
		adminGroup.GET("/orders/ws", adh.orderFeed)
	}

	uh := &uploadHandler{uploads: d.Uploads}
	uploads := api.Group("/upload", protect, adminOnly)
	{
		uploads.POST("", uh.single)
		uploads.POST("/multiple", uh.multiple)
	}

	r.NoRoute(func(c *gin.Context) {
		message(c, http.StatusNotFound, "Not found")
	})

	return r
}
