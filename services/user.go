package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"DoctorsPortal/authorization"
	"DoctorsPortal/db"
	"DoctorsPortal/models"
	"DoctorsPortal/role"

	"go.mongodb.org/mongo-driver/bson"
)

// fields a client may never set on its own user record
var protectedUserFields = []string{"_id", "email", "role"}

type UserService struct {
	users  db.Collection
	tokens *authorization.Tokens
}

func NewUserService(store db.Store, tokens *authorization.Tokens) *UserService {
	return &UserService{users: store.Collection(db.UserCollection), tokens: tokens}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.users.Find(ctx, bson.M{}, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

/*
* Upsert the user keyed by email with the given profile fields
* Issue an access token for the email
 */
func (s *UserService) Upsert(ctx context.Context, email string, fields map[string]interface{}) (*db.UpdateResult, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	for _, k := range protectedUserFields {
		delete(set, k)
	}
	set["email"] = email

	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set}, true)
	if err != nil {
		log.Println("Error while upserting user:", err)
		return nil, "", fmt.Errorf("upsert user %s: %w", email, err)
	}
	token, err := s.tokens.Sign(email)
	if err != nil {
		return nil, "", err
	}
	return res, token, nil
}

func (s *UserService) find(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}, &u)
	if errors.Is(err, db.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &u, nil
}

// IsAdmin reports false for unknown users.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.find(ctx, email)
	if err != nil || u == nil {
		return false, err
	}
	return u.Role.IsAdmin(), nil
}

func (s *UserService) MakeAdmin(ctx context.Context, email string) (*db.UpdateResult, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role.Admin}}, false)
	if err != nil {
		log.Println("Error while granting admin role:", err)
		return nil, fmt.Errorf("make admin %s: %w", email, err)
	}
	return res, nil
}

/*
* Allow only existing users whose stored role parses as admin
 */
func (s *UserService) Authorize(ctx context.Context, email string) error {
	u, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrForbidden
	}
	r, err := role.Parse(string(u.Role))
	if err != nil {
		log.Println("Rejecting user with unknown role:", email, err)
		return ErrForbidden
	}
	switch r {
	case role.Admin:
		return nil
	case role.None:
		return ErrForbidden
	}
	return ErrForbidden
}
