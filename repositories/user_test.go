package repositories

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/store"
)

// setupTestStore initializes a temporary in-memory Badger instance shared by
// the repository tests in this package.
func setupTestStore(t *testing.T) *store.BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewBadgerStore(db)
}

func TestUserRepository_CreateMintsIdentifier(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(setupTestStore(t), slog.Default())

	created, err := repo.Create(domain.User{
		UserID:    "USER:client-supplied-must-be-ignored",
		FirstName: "Alice",
		LastName:  "Smith",
		Nickname:  "Al",
	})
	req.NoError(err)
	req.True(strings.HasPrefix(created.UserID, "USER:"))
	req.NotEqual("USER:client-supplied-must-be-ignored", created.UserID)
	req.Equal("Alice", created.FirstName)
	req.Equal("Smith", created.LastName)
	req.Equal("Al", created.Nickname)
}

func TestUserRepository_CreateRetrieveRoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(setupTestStore(t), slog.Default())

	created, err := repo.Create(domain.User{FirstName: "Bob", LastName: "Jones", Nickname: "Bobby"})
	req.NoError(err)

	fetched, err := repo.Retrieve(created.UserID)
	req.NoError(err)
	req.Equal(created, fetched)
}

func TestUserRepository_RetrieveUnknownIsNotFound(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(setupTestStore(t), slog.Default())

	_, err := repo.Retrieve("USER:does-not-exist")
	req.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserRepository_UpdateOnlyChangesNickname(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(setupTestStore(t), slog.Default())

	created, err := repo.Create(domain.User{FirstName: "Clara", LastName: "Doe", Nickname: "C"})
	req.NoError(err)

	// The input tries to rewrite immutable fields as well; those edits are
	// dropped without failing the call.
	updated, err := repo.Update(domain.User{
		UserID:    created.UserID,
		FirstName: "Hacked",
		LastName:  "Hacked",
		Nickname:  "Clarabelle",
	})
	req.NoError(err)
	req.Equal("Clarabelle", updated.Nickname)
	req.Equal("Clara", updated.FirstName)
	req.Equal("Doe", updated.LastName)
	req.Equal(created.UserID, updated.UserID)
}

func TestUserRepository_ListAll(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(setupTestStore(t), slog.Default())

	a, err := repo.Create(domain.User{FirstName: "A"})
	req.NoError(err)
	b, err := repo.Create(domain.User{FirstName: "B"})
	req.NoError(err)

	all, err := repo.ListAll()
	req.NoError(err)
	req.Len(all, 2)
	req.ElementsMatch([]string{a.UserID, b.UserID}, []string{all[0].UserID, all[1].UserID})
}
