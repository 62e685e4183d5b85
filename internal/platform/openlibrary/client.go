package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"booktrack/internal/book"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(userAgent string, rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    "https://openlibrary.org",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

type publisher struct {
	Name string `json:"name"`
}

// bookDetails matches api/books?jscmd=data
type bookDetails struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Publishers  []publisher `json:"publishers"`
	PublishDate string      `json:"publish_date"`
	Cover       struct {
		Large string `json:"large"`
	} `json:"cover"`
	NumberOfPages int `json:"number_of_pages"`
}

var yearRe = regexp.MustCompile(`\d{4}`)

// Lookup fetches metadata for one ISBN. Implements book.MetadataSource.
func (c *Client) Lookup(ctx context.Context, isbn string) (book.Metadata, error) {
	u := fmt.Sprintf("%s/api/books?bibkeys=ISBN:%s&jscmd=data&format=json", c.baseURL, isbn)

	var res map[string]bookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return book.Metadata{}, err
	}

	details, ok := res["ISBN:"+isbn]
	if !ok {
		return book.Metadata{}, fmt.Errorf("isbn %s not found", isbn)
	}

	meta := book.Metadata{
		Title:       details.Title,
		Subtitle:    details.Subtitle,
		PublishYear: yearRe.FindString(details.PublishDate),
		PageCount:   details.NumberOfPages,
		CoverURL:    details.Cover.Large,
	}
	if len(details.Publishers) > 0 {
		meta.Publisher = details.Publishers[0].Name
	}
	return meta, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
