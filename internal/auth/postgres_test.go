package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fbauth.dev/internal/ids"
)

var accountColumns = []string{"id", "name", "email", "facebook_id", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewPGStore(db), mock
}

func TestPGStoreLoadReturnsAccount(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("select id, name, email, facebook_id, created_at, updated_at from users where email").
		WithArgs("any_email@mail.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("acc-1", "any_name", "any_email@mail.com", "fb-1", now, now))

	acc, err := store.Load(context.Background(), "  Any_Email@mail.com ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if acc.ID != "acc-1" || acc.Name != "any_name" || acc.ProviderID != "fb-1" {
		t.Fatalf("unexpected account: %+v", acc)
	}
}

func TestPGStoreLoadHandlesNullName(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("from users where email").
		WithArgs("any_email").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("acc-1", nil, "any_email", nil, now, now))

	acc, err := store.Load(context.Background(), "any_email")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if acc.Name != "" || acc.ProviderID != "" {
		t.Fatalf("expected empty optional fields, got %+v", acc)
	}
}

func TestPGStoreLoadNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("from users where email").
		WithArgs("new_email").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.Load(context.Background(), "new_email"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreCreateFromProvider(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "any_name", "any_email", "any_fb_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acc-9"))

	id, err := store.CreateFromProvider(context.Background(), CreateAccountParams{
		Email:      "any_email",
		Name:       "any_name",
		ProviderID: "any_fb_id",
	})
	if err != nil {
		t.Fatalf("CreateFromProvider: %v", err)
	}
	if id != "acc-9" {
		t.Fatalf("unexpected id: %s", id)
	}
}

func TestPGStoreCreateFromProviderStoresNullName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), nil, "any_email", "any_fb_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acc-9"))

	if _, err := store.CreateFromProvider(context.Background(), CreateAccountParams{Email: "any_email", ProviderID: "any_fb_id"}); err != nil {
		t.Fatalf("CreateFromProvider: %v", err)
	}
}

func TestPGStoreUpdateWithProvider(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("update users set name").
		WithArgs("acc-1", "new_name", "new_fb_id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateWithProvider(context.Background(), UpdateAccountParams{ID: "acc-1", Name: "new_name", ProviderID: "new_fb_id"})
	if err != nil {
		t.Fatalf("UpdateWithProvider: %v", err)
	}
}

func TestPGStoreUpdateWithProviderMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("update users set name").
		WithArgs("acc-404", "new_name", "new_fb_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateWithProvider(context.Background(), UpdateAccountParams{ID: "acc-404", Name: "new_name", ProviderID: "new_fb_id"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStorePropagatesDriverErrors(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("from users where email").WithArgs("any_email").WillReturnError(boom)

	if _, err := store.Load(context.Background(), "any_email"); !errors.Is(err, boom) {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestPGStoreFind(t *testing.T) {
	store, mock := newMockStore(t)
	id := ids.New()
	now := time.Now().UTC()

	mock.ExpectQuery("from users where id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(id, "any_name", "any_email", "fb-1", now, now))

	acc, err := store.Find(context.Background(), id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if acc.ID != id {
		t.Fatalf("unexpected id: %s", acc.ID)
	}

	if _, err := store.Find(context.Background(), "garbage"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
