package client

import (
	"context"
	"net/http"
)

// UpdateProfileInput holds the optional fields for a profile update. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateUserInput holds the optional fields for an admin user update.
type UpdateUserInput struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	IsAdmin *bool   `json:"isAdmin,omitempty"`
}

// Register creates an account and returns the user with a session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the user with a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/users/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the authenticated user's own account.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile partially updates the authenticated user's own account and
// returns it with a fresh token.
func (c *Client) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account. Admin token required.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one account by id. Admin token required.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser partially updates an account by id. Admin token required.
func (c *Client) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account by id. Admin token required.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}
