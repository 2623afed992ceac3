// Package client is a small Go client for the clausevault API. Instead of
// ambient token storage, the caller holds an explicit Session returned by
// Register or Login and passes it to every authenticated call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// Session is the caller-held authentication state.
type Session struct {
	Token string
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// User is the exposed account shape.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Settings is the exposed settings shape.
type Settings struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	AIModel string `json:"aiModel"`
}

// OriginalFile mirrors the contract's upload metadata.
type OriginalFile struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Contract is the exposed contract shape.
type Contract struct {
	ID           string        `json:"id"`
	Owner        string        `json:"owner"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Status       string        `json:"status"`
	AIInsights   string        `json:"aiInsights,omitempty"`
	OriginalFile *OriginalFile `json:"originalFile,omitempty"`
}

// Client talks to a clausevault server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates an account and returns the session plus user summary.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, *User, error) {
	var resp authResponse
	err := c.do(ctx, nil, "POST", "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, nil, err
	}
	return &Session{Token: resp.Token}, &resp.User, nil
}

// Login authenticates and returns the session plus user summary.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, *User, error) {
	var resp authResponse
	err := c.do(ctx, nil, "POST", "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err != nil {
		return nil, nil, err
	}
	return &Session{Token: resp.Token}, &resp.User, nil
}

// Settings fetches the caller's settings.
func (c *Client) Settings(ctx context.Context, session *Session) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, session, "GET", "/api/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings changes name and preferred analysis model.
func (c *Client) UpdateSettings(ctx context.Context, session *Session, name, aiModel string) (*Settings, error) {
	var settings Settings
	err := c.do(ctx, session, "PUT", "/api/settings", map[string]string{
		"name": name, "aiModel": aiModel,
	}, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Contracts lists the caller's contracts, newest first.
func (c *Client) Contracts(ctx context.Context, session *Session) ([]Contract, error) {
	var contracts []Contract
	if err := c.do(ctx, session, "GET", "/api/contracts", nil, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

// CreateContract stores a contract from pasted title and content.
func (c *Client) CreateContract(ctx context.Context, session *Session, title, content string) (*Contract, error) {
	var contract Contract
	err := c.do(ctx, session, "POST", "/api/contracts", map[string]string{
		"title": title, "content": content,
	}, &contract)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// DeleteContract removes a contract by id.
func (c *Client) DeleteContract(ctx context.Context, session *Session, id string) error {
	return c.do(ctx, session, "DELETE", "/api/contracts/"+id, nil, nil)
}

// UploadContract uploads a document and returns the created contract.
func (c *Client) UploadContract(ctx context.Context, session *Session, title, filename, contentType string, data []byte) (*Contract, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if title != "" {
		writer.WriteField("title", title)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/contracts/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+session.Token)

	var contract Contract
	if err := c.send(req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// Analyze requests an AI analysis of the contract and returns the text.
func (c *Client) Analyze(ctx context.Context, session *Session, id string) (string, error) {
	var resp struct {
		Analysis string `json:"analysis"`
	}
	if err := c.do(ctx, session, "POST", "/api/contracts/"+id+"/analyze", nil, &resp); err != nil {
		return "", err
	}
	return resp.Analysis, nil
}

func (c *Client) do(ctx context.Context, session *Session, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		message := string(data)
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
