package zammad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout is the HTTP request timeout for outbound calls.
const DefaultTimeout = 30 * time.Second

// ErrBaseURLRequired indicates no instance URL was configured.
var ErrBaseURLRequired = errors.New("zammad: instance URL is required")

// APIError represents a Zammad API error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zammad: API error %d: %s", e.StatusCode, e.Message)
}

// Ticket is one ticket from the search endpoint (expand=true shape).
type Ticket struct {
	ID        int       `json:"id"`
	Number    string    `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Customer  string    `json:"customer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Article is one ticket article (reply or internal note).
type Article struct {
	ID        int       `json:"id"`
	TicketID  int       `json:"ticket_id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is a minimal Zammad REST client. Zammad has no Go SDK; this wraps
// the two endpoints the handler needs with token auth and an explicit
// timeout.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Zammad API client for one instance.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// SearchTickets fetches one page of ticket search results.
func (c *Client) SearchTickets(ctx context.Context, query string, page int) ([]Ticket, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(PerPage))
	params.Set("expand", "true")

	var tickets []Ticket
	if err := c.get(ctx, "/api/v1/tickets/search?"+params.Encode(), &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListArticles fetches all articles for a ticket.
func (c *Client) ListArticles(ctx context.Context, ticketID int) ([]Article, error) {
	var articles []Article
	path := fmt.Sprintf("/api/v1/ticket_articles/by_ticket/%d", ticketID)
	if err := c.get(ctx, path, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// get performs an authenticated GET and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, v any) error {
	if c.baseURL == "" {
		return ErrBaseURLRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token token="+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("zammad: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("zammad: decode response: %w", err)
	}
	return nil
}
