package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending-tracker/internal/database/borrows"
	"github.com/mrlokans/lending-tracker/internal/entities"
)

// LendingController handles the borrow and return transitions.
type LendingController struct {
	borrows BorrowStore
	auditor AuditLogger // optional; nil disables audit logging
}

func NewLendingController(borrowStore BorrowStore, auditor AuditLogger) *LendingController {
	return &LendingController{borrows: borrowStore, auditor: auditor}
}

type returnBookRequest struct {
	Score int `json:"score" binding:"required,min=1,max=10"`
}

// BorrowBook lends a book to a user. Responds 204 on success, 404 when
// the user or book does not exist, and 400 when the book is already
// actively borrowed.
func (controller *LendingController) BorrowBook(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := controller.borrows.BorrowBook(userID, bookID); err != nil {
		switch {
		case errors.Is(err, borrows.ErrUserNotFound):
			respondNotFound(c, "User")
		case errors.Is(err, borrows.ErrBookNotFound):
			respondNotFound(c, "Book")
		case errors.Is(err, borrows.ErrBookAlreadyBorrowed):
			respondBadRequest(c, "Book already borrowed")
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	controller.logEvent(userID, bookID, entities.AuditEventBorrow,
		fmt.Sprintf("user %d borrowed book %d", userID, bookID))

	c.Status(http.StatusNoContent)
}

// ReturnBook closes a user's active borrow, recording their score.
// The score is validated before any store access.
func (controller *LendingController) ReturnBook(c *gin.Context) {
	var req returnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := controller.borrows.ReturnBook(userID, bookID, req.Score); err != nil {
		if errors.Is(err, borrows.ErrBorrowNotFound) {
			respondBadRequest(c, "Borrow record not found or already returned")
			return
		}
		respondInternalError(c, err, "return book")
		return
	}

	controller.logEvent(userID, bookID, entities.AuditEventReturn,
		fmt.Sprintf("user %d returned book %d with score %d", userID, bookID, req.Score))

	c.Status(http.StatusNoContent)
}

// logEvent records an audit event best-effort: failures are logged and
// never surfaced to the client.
func (controller *LendingController) logEvent(userID, bookID uint, eventType entities.AuditEventType, description string) {
	if controller.auditor == nil {
		return
	}
	err := controller.auditor.LogEvent(&entities.AuditEvent{
		UserID:      userID,
		BookID:      bookID,
		EventType:   eventType,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	})
	if err != nil {
		log.Printf("Failed to record %s audit event: %v", eventType, err)
	}
}
