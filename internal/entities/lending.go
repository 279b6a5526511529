package entities

import "time"

// User is a library member who can borrow books.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Borrows   []Borrow  `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Book is a single lendable title. Books are never updated or deleted;
// their rating history lives on the associated borrows.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Borrows   []Borrow  `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Borrow records one lending transaction. A nil ReturnedAt means the
// borrow is still active; UserScore is set together with ReturnedAt on
// return and never changes afterwards.
type Borrow struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"userId"`
	BookID     uint       `gorm:"index;not null" json:"bookId"`
	BorrowedAt time.Time  `gorm:"not null" json:"borrowedAt"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	UserScore  *int       `json:"userScore,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}
