package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

// Collection is a curated product grouping shown on the storefront.
type Collection struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	ProductIDs  []string `json:"products"`
}

// Testimonial is a customer quote shown on the landing page.
type Testimonial struct {
	ID     string `json:"_id"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

// BlogPost is a published article.
type BlogPost struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PricingPlan is a subscription tier from the pricing page.
type PricingPlan struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

// ContactMessage is the contact form payload. Validate catches the cheap
// client-side checks before a request is spent.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// minMessageLen is the shortest contact message the server accepts; checked
// client-side to save the round trip.
const minMessageLen = 10

// Validate performs the client-side checks on the contact form.
func (m ContactMessage) Validate() error {
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.Email == "" {
		return errors.New("email is required")
	}
	if len(m.Message) < minMessageLen {
		return errors.Errorf("message must be at least %d characters", minMessageLen)
	}
	return nil
}

// ListCollections fetches all active collections.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodGet, "/collections", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]Collection](body)
}

// ListTestimonials fetches the published testimonials.
func (c *Client) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodGet, "/testimonials", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]Testimonial](body)
}

// ListBlogPosts fetches one page of published posts.
func (c *Client) ListBlogPosts(ctx context.Context, page int) ([]BlogPost, *Meta, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	body, err := c.tr.DoPublic(ctx, http.MethodGet, "/blog", q, nil)
	if err != nil {
		return nil, nil, err
	}
	return decodePage[[]BlogPost](body)
}

// GetBlogPost fetches one post by slug.
func (c *Client) GetBlogPost(ctx context.Context, slug string) (*BlogPost, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodGet, "/blog/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	p, err := decodeData[BlogPost](body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPricingPlans fetches the pricing tiers.
func (c *Client) ListPricingPlans(ctx context.Context) ([]PricingPlan, error) {
	body, err := c.tr.DoPublic(ctx, http.MethodGet, "/pricing", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]PricingPlan](body)
}

// SubmitContact sends a contact form message.
func (c *Client) SubmitContact(ctx context.Context, msg ContactMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	_, err := c.tr.DoPublic(ctx, http.MethodPost, "/contact", nil, msg)
	return err
}

// Ping checks whether the API answers at all. Used by the availability
// prober; the response body is discarded.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{"page": {"1"}, "limit": {"1"}}
	_, err := c.tr.DoPublic(ctx, http.MethodGet, "/products", q, nil)
	return err
}
