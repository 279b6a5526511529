package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/lending-tracker/internal/entities"
)

// BooksController handles book listing, lookup and creation.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type bookSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type bookDetail struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	// Score is either the integer -1 (no ratings yet) or the average
	// rendered as a string with two fraction digits, e.g. "7.50". The
	// mixed typing is a compatibility contract, not an accident.
	Score any `json:"score"`
}

type createBookRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// GetAllBooks returns every book as an {id, name} projection.
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	summaries := make([]bookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, bookSummary{ID: book.ID, Name: book.Name})
	}
	c.JSON(http.StatusOK, summaries)
}

// GetBookByID returns a single book with its average user score.
func (controller *BooksController) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, bookDetail{
		ID:    book.ID,
		Name:  book.Name,
		Score: averageScore(book.Borrows),
	})
}

// CreateBook creates a new book. Responds 201 with an empty body.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if _, err := controller.store.CreateBook(req.Name); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	c.Status(http.StatusCreated)
}

// averageScore computes the mean of all recorded user scores across the
// given borrows. With no scored borrows it returns the sentinel -1;
// otherwise the mean formatted with exactly two fraction digits.
func averageScore(borrows []entities.Borrow) any {
	sum, count := 0, 0
	for _, borrow := range borrows {
		if borrow.UserScore != nil {
			sum += *borrow.UserScore
			count++
		}
	}

	if count == 0 {
		return -1
	}
	return strconv.FormatFloat(float64(sum)/float64(count), 'f', 2, 64)
}
