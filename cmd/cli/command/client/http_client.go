package client

// http_client.go = talks to the booktracker REST API.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    string    `json:"status"`
	Rating    *int      `json:"rating,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookRequest is the body of both create and replace calls.
type BookRequest struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Status string  `json:"status"`
	Rating *int    `json:"rating,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type ListOptions struct {
	Status string
	Author string
	Search string
}

// APIError carries a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) ListBooks(opts ListOptions) ([]Book, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Author != "" {
		q.Set("author", opts.Author)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	path := "/api/books"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	books := []Book{}
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *HTTPClient) GetBook(id int64) (*Book, error) {
	var b Book
	if err := c.do(http.MethodGet, bookPath(id), nil, http.StatusOK, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) CreateBook(req *BookRequest) (*Book, error) {
	var b Book
	if err := c.do(http.MethodPost, "/api/books", req, http.StatusCreated, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBook replaces every field of the book; nil rating or notes clear them.
func (c *HTTPClient) UpdateBook(id int64, req *BookRequest) (*Book, error) {
	var b Book
	if err := c.do(http.MethodPut, bookPath(id), req, http.StatusOK, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) DeleteBook(id int64) error {
	return c.do(http.MethodDelete, bookPath(id), nil, http.StatusNoContent, nil)
}

func bookPath(id int64) string {
	return "/api/books/" + strconv.FormatInt(id, 10)
}

// do sends the request and decodes the data envelope into out.
func (c *HTTPClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
