// Package services holds the business logic between the request-handling
// layer and the repositories: input validation, composite resource
// resolution, and the polling-based notification engine.
package services

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"collab-chat/domain"
	"collab-chat/repositories"
)

var validate = validator.New()

type CreateUserCommand struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Nickname  string
}

type UserService struct {
	users repositories.IUserRepository
	log   *slog.Logger
}

func NewUserService(users repositories.IUserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) CreateUser(cmd CreateUserCommand) (domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.User{}, err
	}
	return s.users.Create(domain.User{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Nickname:  cmd.Nickname,
	})
}

func (s *UserService) RetrieveUser(id string) (domain.User, error) {
	return s.users.Retrieve(id)
}

func (s *UserService) RetrieveAllUsers() ([]domain.User, error) {
	return s.users.ListAll()
}

// ModifyUser applies the nickname from the input; every other field a client
// sends along is ignored rather than rejected.
func (s *UserService) ModifyUser(input domain.User) (domain.User, error) {
	return s.users.Update(input)
}

// CreateTestUsers provisions a batch of throwaway users for demos.
func (s *UserService) CreateTestUsers(count int) ([]domain.User, error) {
	users := make([]domain.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.users.Create(domain.User{
			FirstName: fmt.Sprintf("Test User First Name %d", i),
			LastName:  fmt.Sprintf("Test User Last Name %d", i),
			Nickname:  fmt.Sprintf("Test User Nickname %d", i),
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
