package userdsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client is a client for the user management service. Unauthenticated
// operations (Login, CreateUser, health checks) are available directly;
// everything else takes the access token returned by Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
