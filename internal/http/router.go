package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending-tracker/internal/database"
)

// RouterConfig carries all dependencies for NewRouter, improving
// testability and reducing parameter count.
type RouterConfig struct {
	Users    UserStore
	Books    BookStore
	Borrows  BorrowStore
	Auditor  AuditLogger // optional
	Database *database.Database
	Version  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}))

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	usersController := NewUsersController(cfg.Users, cfg.Borrows)
	lendingController := NewLendingController(cfg.Borrows, cfg.Auditor)

	// Root banner and health endpoints
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Library Management API is working!")
	})
	router.GET("/health", health.Status)

	// Book endpoints
	router.GET("/books", booksController.GetAllBooks)
	router.GET("/books/:id", booksController.GetBookByID)
	router.POST("/books", booksController.CreateBook)

	// User and lending endpoints. Gin requires one wildcard name per
	// position, so the user ID segment is :id throughout.
	router.GET("/users", usersController.GetAllUsers)
	router.GET("/users/:id", usersController.GetUserByID)
	router.POST("/users", usersController.CreateUser)
	router.POST("/users/:id/borrow/:bookId", lendingController.BorrowBook)
	router.POST("/users/:id/return/:bookId", lendingController.ReturnBook)

	return router
}
