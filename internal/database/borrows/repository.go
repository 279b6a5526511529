// Package borrows implements the borrow/return lifecycle.
//
// A borrow row moves through exactly one transition: created active
// (ReturnedAt nil), then returned once (ReturnedAt and UserScore set in
// a single update). A book can have at most one active borrow at any
// time; the check and the insert run inside one transaction so two
// concurrent requests cannot both claim the same book.
//
// # Usage
//
//	repo := borrows.NewRepository(db)
//	if err := repo.BorrowBook(userID, bookID); errors.Is(err, borrows.ErrBookAlreadyBorrowed) {
//		// reject with a conflict
//	}
package borrows

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lending-tracker/internal/entities"
)

// Domain rule violations detected by the lifecycle engine. Handlers map
// these to HTTP statuses with errors.Is.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrBookAlreadyBorrowed = errors.New("book already borrowed")
	ErrBorrowNotFound      = errors.New("borrow record not found or already returned")
)

// Repository handles borrow lifecycle transitions and borrow queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrows repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BorrowBook creates an active borrow of bookID by userID.
//
// Preconditions are checked in order: the user exists, the book exists,
// and the book has no active borrow. All checks and the insert share one
// transaction, so the single-active-borrow invariant holds even under
// concurrent requests.
func (r *Repository) BorrowBook(userID, bookID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		var active int64
		err := tx.Model(&entities.Borrow{}).
			Where("book_id = ? AND returned_at IS NULL", bookID).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrBookAlreadyBorrowed
		}

		borrow := entities.Borrow{
			UserID:     userID,
			BookID:     bookID,
			BorrowedAt: time.Now(),
		}
		return tx.Create(&borrow).Error
	})
}

// ReturnBook closes the active borrow of bookID held by userID,
// recording the user's score. The lookup is scoped to the exact
// (user, book) pair, so a different user cannot return a book they did
// not borrow and a returned borrow cannot be returned again.
func (r *Repository) ReturnBook(userID, bookID uint, score int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var borrow entities.Borrow
		err := tx.
			Where("user_id = ? AND book_id = ? AND returned_at IS NULL", userID, bookID).
			First(&borrow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowNotFound
			}
			return err
		}

		// ReturnedAt and UserScore change together, exactly once.
		return tx.Model(&borrow).Updates(map[string]any{
			"returned_at": time.Now(),
			"user_score":  score,
		}).Error
	})
}

// ActiveByUser returns the user's currently active borrows with their
// books loaded.
func (r *Repository) ActiveByUser(userID uint) ([]entities.Borrow, error) {
	var result []entities.Borrow
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Find(&result).Error
	return result, err
}

// PastScoredByUser returns the user's returned borrows that carry a
// score. Returned borrows without a score are excluded.
func (r *Repository) PastScoredByUser(userID uint) ([]entities.Borrow, error) {
	var result []entities.Borrow
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned_at IS NOT NULL AND user_score IS NOT NULL", userID).
		Find(&result).Error
	return result, err
}
