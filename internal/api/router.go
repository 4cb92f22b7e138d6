// Package api wires the HTTP routes onto the services.
package api

import (
	"net/http"
	"time"

	"bookstore/internal/middleware"
	"bookstore/internal/service"
	"bookstore/internal/utils"
	"bookstore/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxUploadMemory bounds the multipart bytes held in memory before spilling to disk
const maxUploadMemory = 8 << 20

// Deps is everything the router hands to its handlers
type Deps struct {
	Log         *logrus.Logger
	Validator   *validate.Validator
	Tokens      *utils.TokenIssuer
	Users       middleware.UserFinder // Role lookups for admin routes
	Auth        *service.AuthService
	UserService *service.UserService
	Books       *service.BookService
	Wallets     *service.WalletService
	Uploads     FileStore
	Metrics     *middleware.Metrics     // Optional
	AuthLimiter *middleware.RateLimiter // Optional
	Started     time.Time
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gin.CustomRecoveryWithWriter(d.Log.WriterLevel(logrus.ErrorLevel), func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	r.GET("/", InfoHandler())
	r.GET("/health", HealthHandler(d.Started))

	// Auth routes
	auth := r.Group("/api/auth")
	if d.AuthLimiter != nil {
		auth.Use(d.AuthLimiter.Middleware())
	}
	auth.POST("/register", RegisterHandler(d.Auth, d.Validator, d.Log))
	auth.POST("/login", LoginHandler(d.Auth, d.Validator, d.Log))

	// Everything else requires a bearer token
	protected := r.Group("/api", middleware.JWTAuthMiddleware(d.Tokens))

	books := protected.Group("/books")
	books.GET("", ListBooksHandler(d.Books, d.Validator, d.Log))
	books.POST("", CreateBookHandler(d.Books, d.Uploads, d.Validator, d.Log))
	books.GET("/mine", ListMyBooksHandler(d.Books, d.Validator, d.Log))
	books.POST("/delete-many", DeleteManyBooksHandler(d.Books, d.Validator, d.Log))
	books.GET("/:id", GetBookHandler(d.Books, d.Validator, d.Log))
	books.PATCH("/:id", UpdateBookHandler(d.Books, d.Uploads, d.Validator, d.Log))
	books.DELETE("/:id", DeleteBookHandler(d.Books, d.Validator, d.Log))

	users := protected.Group("/users")
	users.GET("", ListUsersHandler(d.UserService, d.Validator, d.Log))
	users.GET("/:id", GetUserHandler(d.UserService, d.Validator, d.Log))
	users.PATCH("/:id", UpdateUserHandler(d.UserService, d.Validator, d.Log))
	users.DELETE("/:id", DeleteUserHandler(d.UserService, d.Validator, d.Log))

	protected.GET("/wallet", GetWalletHandler(d.Wallets, d.Log))

	// Admin routes, role checked against the database on each request
	admin := protected.Group("/admin", middleware.AdminOnlyMiddleware(d.Users))
	admin.PUT("/wallets/:userId/balance", SetBalanceHandler(d.Wallets, d.Validator, d.Log))
	admin.POST("/wallets/:userId/adjust", AdjustBalanceHandler(d.Wallets, d.Validator, d.Log))

	return r
}
