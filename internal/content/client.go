package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/go-playground/validator/v10"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMalformedPayload = errors.New("malformed payload")
)

const maxBodyBytes = 10 << 20

// NewHTTPClient returns the transport used for content requests. The client
// timeout bounds a whole request, including reading the body.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Client reads collections from the content service. It never writes.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		validate: validator.New(),
	}
}

// get issues GET <base><path> and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("GET %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", path, err)
	}
	return body, nil
}

// Fetch retrieves one collection. The response must be a JSON array whose
// every entry passes validation; anything else fails the whole request.
func Fetch[T catalog.Entity](ctx context.Context, c *Client, kind catalog.Kind) ([]T, error) {
	body, err := c.get(ctx, kind.Path())
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", kind, ErrMalformedPayload, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%s: %w: not an array", kind, ErrMalformedPayload)
	}

	for i, item := range items {
		if err := c.validate.Struct(item); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w: %v", kind, i, ErrMalformedPayload, err)
		}
	}
	return items, nil
}

// Source binds a client to one collection kind.
type Source[T catalog.Entity] struct {
	client *Client
	kind   catalog.Kind
}

func NewSource[T catalog.Entity](client *Client, kind catalog.Kind) *Source[T] {
	return &Source[T]{client: client, kind: kind}
}

func (s *Source[T]) Fetch(ctx context.Context) ([]T, error) {
	return Fetch[T](ctx, s.client, s.kind)
}

func (s *Source[T]) Kind() catalog.Kind {
	return s.kind
}

// Sources holds one source per collection kind.
type Sources struct {
	Products    *Source[catalog.Product]
	RentalItems *Source[catalog.RentalItem]
	Articles    *Source[catalog.Article]
}

func NewSources(client *Client) Sources {
	return Sources{
		Products:    NewSource[catalog.Product](client, catalog.KindProducts),
		RentalItems: NewSource[catalog.RentalItem](client, catalog.KindRentalItems),
		Articles:    NewSource[catalog.Article](client, catalog.KindArticles),
	}
}
