package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UsersController handles user listing, lookup and creation.
type UsersController struct {
	users   UserStore
	borrows BorrowStore
}

func NewUsersController(users UserStore, borrows BorrowStore) *UsersController {
	return &UsersController{users: users, borrows: borrows}
}

type userSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type presentBook struct {
	Name string `json:"name"`
}

type pastBook struct {
	Name      string `json:"name"`
	UserScore int    `json:"userScore"`
}

type userBooks struct {
	Past    []pastBook    `json:"past"`
	Present []presentBook `json:"present"`
}

type userDetail struct {
	ID    uint      `json:"id"`
	Name  string    `json:"name"`
	Books userBooks `json:"books"`
}

type createUserRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// GetAllUsers returns every user as an {id, name} projection.
func (controller *UsersController) GetAllUsers(c *gin.Context) {
	users, err := controller.users.GetAllUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, userSummary{ID: user.ID, Name: user.Name})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetUserByID returns a single user together with their borrow history,
// partitioned into present (active) and past (returned with a score)
// books. Returned-but-unscored borrows are excluded from past.
func (controller *UsersController) GetUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := controller.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}

	active, err := controller.borrows.ActiveByUser(id)
	if err != nil {
		respondInternalError(c, err, "get user active borrows")
		return
	}

	pastScored, err := controller.borrows.PastScoredByUser(id)
	if err != nil {
		respondInternalError(c, err, "get user past borrows")
		return
	}

	books := userBooks{
		Past:    make([]pastBook, 0, len(pastScored)),
		Present: make([]presentBook, 0, len(active)),
	}
	for _, borrow := range pastScored {
		books.Past = append(books.Past, pastBook{
			Name:      borrow.Book.Name,
			UserScore: *borrow.UserScore,
		})
	}
	for _, borrow := range active {
		books.Present = append(books.Present, presentBook{Name: borrow.Book.Name})
	}

	c.JSON(http.StatusOK, userDetail{ID: user.ID, Name: user.Name, Books: books})
}

// CreateUser creates a new user and responds 201 with the created record.
func (controller *UsersController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := controller.users.CreateUser(req.Name)
	if err != nil {
		respondInternalError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}
