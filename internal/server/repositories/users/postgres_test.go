package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery     = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*name,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	selectByEmail   = `(?s)^SELECT\s+id,\s*email,\s*name,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByID      = `(?s)^SELECT\s+id,\s*email,\s*name,\s*password_hash,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	updateNameQuery = `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*email,\s*name,\s*password_hash,\s*created_at,\s*updated_at\s*$`

	testID = "4b0f7a8e-2f4e-4f35-9a55-2c1f6d0b9c11"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs(testID, "alice@example.com", "Alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	u := &models.User{ID: testID, Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, testID, got.ID)
	assert.Equal(t, ts, got.CreatedAt)
	assert.Equal(t, ts, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_GeneratesID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "Bob", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	got, err := repo.Create(context.Background(), &models.User{Email: "bob@example.com", DisplayName: "Bob", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Len(t, got.ID, 36)
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs(testID, "alice@example.com", "Alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: testID, Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash"})
	require.ErrorIs(t, err, common.ErrorConflict)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs(testID, "alice@example.com", "Alice", "hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: testID, Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.False(t, errors.Is(err, common.ErrorConflict))
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(selectByEmail).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testID, "alice@example.com", "Alice", "hash", ts, ts))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID: testID, Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash", CreatedAt: ts, UpdatedAt: ts,
	}, got)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByEmail).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByEmail).
		WithArgs("alice@example.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(selectByID).
		WithArgs(testID).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testID, "alice@example.com", "Alice", "hash", ts, ts))

	got, err := repo.FindByID(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	mock.ExpectQuery(selectByID).
		WithArgs(testID).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(context.Background(), testID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_MalformedIDSkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	mock.ExpectQuery(updateNameQuery).
		WithArgs(testID, "Alicia").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testID, "alice@example.com", "Alicia", "hash", created, updated))

	got, err := repo.UpdateName(context.Background(), testID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.DisplayName)
	assert.Equal(t, updated, got.UpdatedAt)

	mock.ExpectQuery(updateNameQuery).
		WithArgs(testID, "Alicia").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateName(context.Background(), testID, "Alicia")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
