// Package books provides database operations for lendable books.
package books

import (
	"gorm.io/gorm"

	"github.com/mrlokans/lending-tracker/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook creates a new book with the given name.
func (r *Repository) CreateBook(name string) (*entities.Book, error) {
	book := &entities.Book{Name: name}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID retrieves a book by ID together with its full borrow
// history, which callers use for score aggregation.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Borrows").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves every book ordered by ID. Borrow history is not
// loaded; listings only need id and name.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}
