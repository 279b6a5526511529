package http

import "github.com/mrlokans/lending-tracker/internal/entities"

// This file consolidates all store interface definitions used by HTTP
// controllers. Each controller depends only on the interface it needs,
// which keeps handlers substitutable with in-memory fakes in tests.

// UserStore provides user persistence operations.
type UserStore interface {
	CreateUser(name string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	GetAllUsers() ([]entities.User, error)
}

// BookStore provides book persistence operations.
type BookStore interface {
	CreateBook(name string) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
}

// BorrowStore provides the borrow lifecycle and borrow queries.
type BorrowStore interface {
	BorrowBook(userID, bookID uint) error
	ReturnBook(userID, bookID uint, score int) error
	ActiveByUser(userID uint) ([]entities.Borrow, error)
	PastScoredByUser(userID uint) ([]entities.Borrow, error)
}

// AuditLogger records lending operations server-side.
type AuditLogger interface {
	LogEvent(event *entities.AuditEvent) error
}
