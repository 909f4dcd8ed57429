//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/store"
)

const (
	fieldUserID    = "userid"
	fieldFirstName = "firstname"
	fieldLastName  = "lastname"
	fieldNickname  = "nickname"
)

type IUserRepository interface {
	Create(input domain.User) (domain.User, error)
	Retrieve(id string) (domain.User, error)
	Update(input domain.User) (domain.User, error)
	ListAll() ([]domain.User, error)
}

type UserRepository struct {
	kv  store.KeyValueStore
	log *slog.Logger
}

func NewUserRepository(kv store.KeyValueStore, log *slog.Logger) UserRepository {
	return UserRepository{kv: kv, log: log}
}

// Create persists a new user. The identifier is always minted here; any id
// present on the input is discarded. The returned value is reconstructed from
// a re-read of the store, never from the in-memory input.
func (r UserRepository) Create(input domain.User) (domain.User, error) {
	input.UserID = domain.NewUserID()
	r.log.Debug("creating user", "id", input.UserID)

	if err := r.kv.Put(input.UserID, userToFields(input, time.Now().UTC())); err != nil {
		return domain.User{}, err
	}
	return r.Retrieve(input.UserID)
}

func (r UserRepository) Retrieve(id string) (domain.User, error) {
	userID, ok, err := r.kv.GetField(id, fieldUserID)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return userFromFields(r.kv, userID)
}

// Update overwrites the nickname, the only mutable user field. Everything
// else on the input is ignored, noisy client input is tolerated by design.
func (r UserRepository) Update(input domain.User) (domain.User, error) {
	existing, err := r.Retrieve(input.UserID)
	if err != nil {
		return domain.User{}, err
	}

	existing.Nickname = input.Nickname
	if err := r.kv.Put(existing.UserID, userToFields(existing, time.Now().UTC())); err != nil {
		return domain.User{}, err
	}
	return r.Retrieve(existing.UserID)
}

// ListAll scans every user record. O(number of users); the scoped domain has
// no per-user index and does not need one.
func (r UserRepository) ListAll() ([]domain.User, error) {
	keys, err := r.kv.ScanKeys(domain.KindUser + ":")
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(keys))
	for _, key := range keys {
		user, err := r.Retrieve(key)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func userToFields(u domain.User, now time.Time) map[string]string {
	return map[string]string{
		fieldUserID:       u.UserID,
		fieldFirstName:    u.FirstName,
		fieldLastName:     u.LastName,
		fieldNickname:     u.Nickname,
		fieldLastModified: formatTimestamp(now),
	}
}

func userFromFields(kv store.KeyValueStore, id string) (domain.User, error) {
	firstName, err := optionalField(kv, id, fieldFirstName)
	if err != nil {
		return domain.User{}, err
	}
	lastName, err := optionalField(kv, id, fieldLastName)
	if err != nil {
		return domain.User{}, err
	}
	nickname, err := optionalField(kv, id, fieldNickname)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		UserID:    id,
		FirstName: firstName,
		LastName:  lastName,
		Nickname:  nickname,
	}, nil
}
