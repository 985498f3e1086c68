package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent HTTPClient bound to baseURL. Requests
// default to JSON and are bounded by timeout when it is positive. Retries are
// disabled: callers decide whether a failed call may be repeated.
//
//	client := utils.NewHTTPClient("https://graph.facebook.com/v19.0", 10*time.Second)
//	resp, err := client.R().SetQueryParam("fields", "id").Get("/me")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &HTTPClient{Client: c}
}
