package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// AdminClient talks to the Supabase Auth admin API.
// The seed command uses it to provision the demo instructor who owns sample templates.
type AdminClient struct {
	supabaseURL string
	serviceKey  string
	httpClient  *http.Client
}

// NewAdminClient creates a Supabase Auth admin client.
// Requires the service role key (SUPABASE_KEY).
func NewAdminClient(supabaseURL, serviceKey string) *AdminClient {
	return &AdminClient{
		supabaseURL: supabaseURL,
		serviceKey:  serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUserRequest is the payload for creating a user
type CreateUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// User is an Auth user as returned by the admin API
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type listUsersResponse struct {
	Users []User `json:"users"`
}

// EnsureUser returns the id of the user with email, creating a confirmed
// account with password if none exists.
func (c *AdminClient) EnsureUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error) {
	id, err := c.FindUserIDByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return c.CreateUser(ctx, &CreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: metadata,
	})
}

// FindUserIDByEmail returns "" when no user has the email.
func (c *AdminClient) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var list listUsersResponse
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users?per_page=1000", nil, &list); err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}
	for _, user := range list.Users {
		if user.Email == email {
			return user.ID, nil
		}
	}
	return "", nil
}

// CreateUser creates a user and returns its id.
func (c *AdminClient) CreateUser(ctx context.Context, req *CreateUserRequest) (string, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", req, &created); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return created.ID, nil
}

// DeleteUser removes a user by id. Deleting a missing user is not an error.
func (c *AdminClient) DeleteUser(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil)
	if se, ok := err.(*statusError); ok && se.status == http.StatusNotFound {
		return nil
	}
	return err
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("admin API returned status %d: %s", e.status, e.body)
}

func (c *AdminClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.supabaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode, body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
