package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anand/task-tracker/backend/internal/models"
)

// ErrUnauthenticated is returned when the server rejects the request for
// lack of a valid token (missing, forged, or expired — the server does not
// say which).
var ErrUnauthenticated = errors.New("not logged in or session expired")

// APIError carries the server's error message for non-auth failures.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client is a thin HTTP client for the task API. It holds the bearer token
// for the current session; persistence across runs is the caller's job
// (see TokenFile).
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

// SetToken attaches a previously saved bearer token to future requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// Logout discards the session token. The server keeps no session state, so
// this is purely a client-side operation.
func (c *Client) Logout() { c.token = "" }

// Register creates a new account and returns the new user id.
func (c *Client) Register(ctx context.Context, username, password string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register",
		models.RegisterRequest{Username: username, Password: password}, &out)
	return out.ID, err
}

// Login authenticates and keeps the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

// Tasks fetches the caller's task list.
func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTask creates a task and returns the server's copy.
func (c *Client) AddTask(ctx context.Context, req models.TaskRequest) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask replaces every mutable field of the task.
func (c *Client) UpdateTask(ctx context.Context, id int64, req models.TaskRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), req, nil)
}

// DeleteTask removes the task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthenticated
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
