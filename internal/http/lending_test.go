package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lending-tracker/internal/database"
	"github.com/mrlokans/lending-tracker/internal/database/audit"
	"github.com/mrlokans/lending-tracker/internal/database/books"
	"github.com/mrlokans/lending-tracker/internal/database/borrows"
	"github.com/mrlokans/lending-tracker/internal/database/users"
	"github.com/mrlokans/lending-tracker/internal/entities"
)

func setupLendingTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_lending_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newAPIRouter(db *database.Database) *gin.Engine {
	return NewRouter(RouterConfig{
		Users:    users.NewRepository(db.DB),
		Books:    books.NewRepository(db.DB),
		Borrows:  borrows.NewRepository(db.DB),
		Auditor:  audit.NewRepository(db.DB),
		Database: db,
		Version:  "test",
	})
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest("POST", path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestLendingController_BorrowBook(t *testing.T) {
	t.Run("borrows an available book", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)

		w := postJSON(router, "/users/1/borrow/1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("returns 404 when the user does not exist", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)

		w := postJSON(router, "/users/999/borrow/1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "User not found"}`, w.Body.String())
	})

	t.Run("returns 404 when the book does not exist", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)

		router := newAPIRouter(db)

		w := postJSON(router, "/users/1/borrow/999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "Book not found"}`, w.Body.String())
	})

	t.Run("returns 400 when the book is already borrowed", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		usersRepo := users.NewRepository(db.DB)
		_, err := usersRepo.CreateUser("First")
		require.NoError(t, err)
		_, err = usersRepo.CreateUser("Second")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)

		require.Equal(t, http.StatusNoContent, postJSON(router, "/users/1/borrow/1", "").Code)

		w := postJSON(router, "/users/2/borrow/1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Book already borrowed"}`, w.Body.String())
	})

	t.Run("records an audit event", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)
		require.Equal(t, http.StatusNoContent, postJSON(router, "/users/1/borrow/1", "").Code)

		events, total, err := audit.NewRepository(db.DB).GetEvents(1, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, entities.AuditEventBorrow, events[0].EventType)
	})
}

func TestLendingController_ReturnBook(t *testing.T) {
	t.Run("returns a borrowed book with a score", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)
		require.Equal(t, http.StatusNoContent, postJSON(router, "/users/1/borrow/1", "").Code)

		w := postJSON(router, "/users/1/return/1", `{"score": 9}`)

		assert.Equal(t, http.StatusNoContent, w.Code)

		var borrow entities.Borrow
		require.NoError(t, db.DB.First(&borrow).Error)
		require.NotNil(t, borrow.ReturnedAt)
		require.NotNil(t, borrow.UserScore)
		assert.Equal(t, 9, *borrow.UserScore)
	})

	t.Run("rejects scores outside 1-10 before touching the store", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		router := newAPIRouter(db)

		for _, body := range []string{`{"score": 0}`, `{"score": 11}`, `{}`} {
			w := postJSON(router, "/users/1/return/1", body)

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)

			var result ValidationErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], "score")
		}
	})

	t.Run("returns 400 when no active borrow exists", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)

		w := postJSON(router, "/users/1/return/1", `{"score": 5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Borrow record not found or already returned"}`, w.Body.String())
	})

	t.Run("rejects a double return", func(t *testing.T) {
		db, cleanup := setupLendingTestDB(t)
		defer cleanup()

		_, err := users.NewRepository(db.DB).CreateUser("Reader")
		require.NoError(t, err)
		_, err = books.NewRepository(db.DB).CreateBook("Dune")
		require.NoError(t, err)

		router := newAPIRouter(db)
		require.Equal(t, http.StatusNoContent, postJSON(router, "/users/1/borrow/1", "").Code)
		require.Equal(t, http.StatusNoContent, postJSON(router, "/users/1/return/1", `{"score": 9}`).Code)

		w := postJSON(router, "/users/1/return/1", `{"score": 3}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// Full walk through the lending lifecycle over the real router.
func TestLendingLifecycle_EndToEnd(t *testing.T) {
	db, cleanup := setupLendingTestDB(t)
	defer cleanup()

	router := newAPIRouter(db)

	// Create user U and another user
	w := postJSON(router, "/users", `{"name": "Esin Öner"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(router, "/users", `{"name": "Kadir Mutlu"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Create book B
	w = postJSON(router, "/books", `{"name": "1984"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Borrow B by U
	w = postJSON(router, "/users/1/borrow/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	// Second borrow of B by another user conflicts
	w = postJSON(router, "/users/2/borrow/1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Book already borrowed"}`, w.Body.String())

	// User view while the borrow is active
	w = getJSON(router, "/users/1")
	require.Equal(t, http.StatusOK, w.Code)
	var userResult userDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &userResult))
	require.Len(t, userResult.Books.Present, 1)
	assert.Equal(t, "1984", userResult.Books.Present[0].Name)
	assert.Empty(t, userResult.Books.Past)

	// Return B by U with score 9
	w = postJSON(router, "/users/1/return/1", `{"score": 9}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Book B now reports "9.00"
	w = getJSON(router, "/books/1")
	require.Equal(t, http.StatusOK, w.Code)
	var bookResult map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookResult))
	assert.Equal(t, "9.00", bookResult["score"])

	// User view moved the book from present to past
	w = getJSON(router, "/users/1")
	require.Equal(t, http.StatusOK, w.Code)
	userResult = userDetail{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &userResult))
	assert.Empty(t, userResult.Books.Present)
	require.Len(t, userResult.Books.Past, 1)
	assert.Equal(t, "1984", userResult.Books.Past[0].Name)
	assert.Equal(t, 9, userResult.Books.Past[0].UserScore)

	// Both lending operations were audited
	_, total, err := audit.NewRepository(db.DB).GetEvents(1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRouter_RootBanner(t *testing.T) {
	db, cleanup := setupLendingTestDB(t)
	defer cleanup()

	router := newAPIRouter(db)

	w := getJSON(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Library Management API is working!", w.Body.String())
}
