// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── users/           # User creation and lookups
//	├── books/           # Book creation and lookups
//	├── borrows/         # Borrow/return lifecycle and borrow queries
//	└── audit/           # Audit event log with retention cleanup
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type constructed over the
// shared *gorm.DB handle:
//
//	db, _ := database.NewDatabase("./lending-tracker.db")
//	repo := borrows.NewRepository(db.DB)
//	err := repo.BorrowBook(userID, bookID)
package database
