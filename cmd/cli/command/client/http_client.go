package client

// http_client.go talks to the yamdb REST API on behalf of the CLI.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/http-api/dto"

	"github.com/goccy/go-json"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken makes every following request carry the bearer token.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Detail     string              `json:"detail"`
	Fields     map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		if e.Detail == "" {
			return fmt.Sprintf("request failed with status %d", e.StatusCode)
		}
		return fmt.Sprintf("%s (status %d)", e.Detail, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return fmt.Sprintf("invalid request: %s", strings.Join(parts, "; "))
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
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

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// a body that is not the usual JSON envelope still yields the status
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pageQuery(q url.Values, limit, offset int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return q
}

// Signup asks the server to mail a confirmation code.
func (c *HTTPClient) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	var result dto.SignupResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ObtainToken exchanges a confirmation code for an access token.
func (c *HTTPClient) ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	var result dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTaxonomy lists "categories" or "genres".
func (c *HTTPClient) ListTaxonomy(ctx context.Context, kind, search string, limit, offset int) (*dto.Paginated[dto.TaxonomyResponse], error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	var result dto.Paginated[dto.TaxonomyResponse]
	if err := c.do(ctx, http.MethodGet, "/"+kind, pageQuery(q, limit, offset), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListTitles(ctx context.Context, filter dto.TitleQuery, limit, offset int) (*dto.Paginated[dto.TitleResponse], error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Year != nil {
		q.Set("year", strconv.Itoa(*filter.Year))
	}
	var result dto.Paginated[dto.TitleResponse]
	if err := c.do(ctx, http.MethodGet, "/titles", pageQuery(q, limit, offset), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetTitle(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	var result dto.TitleResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/titles/%d", id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListReviews(ctx context.Context, titleID int64, limit, offset int) (*dto.Paginated[dto.ReviewResponse], error) {
	var result dto.Paginated[dto.ReviewResponse]
	path := fmt.Sprintf("/titles/%d/reviews", titleID)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(nil, limit, offset), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateReview(ctx context.Context, titleID int64, req dto.ReviewRequest) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/titles/%d/reviews", titleID), nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d", titleID, reviewID), nil, nil, nil)
}

func (c *HTTPClient) ListComments(ctx context.Context, titleID, reviewID int64, limit, offset int) (*dto.Paginated[dto.CommentResponse], error) {
	var result dto.Paginated[dto.CommentResponse]
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(nil, limit, offset), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, titleID, reviewID int64, text string) (*dto.CommentResponse, error) {
	var result dto.CommentResponse
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID)
	if err := c.do(ctx, http.MethodPost, path, nil, dto.CommentRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
