package blacklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Upstream defaults
const (
	DefaultBlacklistURL      = "https://fz.qimeng.fun/OpenAPI/all_f.php"
	DefaultAvatarURLTemplate = "https://q1.qlogo.cn/g?b=qq&nk=%s&s=640"
	DefaultTimeout           = 10 * time.Second

	profileSuccessCode = 200
)

// Fetcher is implemented by any value that can issue the two upstream calls of a lookup
type Fetcher interface {
	// FetchBlacklist returns the raw blacklist payload for the lookup request
	FetchBlacklist(ctx context.Context, req LookupRequest) (body []byte, err error)

	// FetchProfile returns the nickname and avatar known for targetID
	FetchProfile(ctx context.Context, targetID string) (p Profile, err error)
}

// Profile holds the identity data returned by the nickname lookup
type Profile struct {
	DisplayName string
	AvatarURL   string
}

// profilePayload is the nickname endpoint's answer
type profilePayload struct {
	Code   int    `json:"code"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Client is the HTTP Fetcher for the cloud blacklist and nickname endpoints
type Client struct {
	httpClient   *http.Client
	blacklistURL string
	nicknameURL  string
}

// ClientOption defines an option for a Client
type ClientOption func(c *Client)

// OptionHTTPClient sets the http client used for upstream calls. The client is copied and the
// copy's Timeout set to NewClient's timeout, leaving httpClient untouched
func OptionHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient == nil {
			return
		}

		copied := *httpClient
		c.httpClient = &copied
	}
}

// OptionBlacklistURL sets the base url of the blacklist endpoint
func OptionBlacklistURL(u string) ClientOption {
	return func(c *Client) {
		c.blacklistURL = u
	}
}

// OptionNicknameURL sets the base url of the nickname endpoint
func OptionNicknameURL(u string) ClientOption {
	return func(c *Client) {
		c.nicknameURL = u
	}
}

// NewClient returns a new Client with every call bounded by timeout. The default http client
// follows redirects
func NewClient(timeout time.Duration, options ...ClientOption) (c *Client) {
	c = new(Client)
	c.httpClient = new(http.Client)
	c.blacklistURL = DefaultBlacklistURL

	for _, opt := range options {
		opt(c)
	}

	c.httpClient.Timeout = timeout

	return c
}

// FetchBlacklist calls {blacklistURL}?id={targetID}&key={apiKey} and returns the response body.
// The body is guaranteed to be non-blank when err is nil
func (c *Client) FetchBlacklist(ctx context.Context, req LookupRequest) (body []byte, err error) {
	q := url.Values{}
	q.Set("id", req.TargetID)
	q.Set("key", req.APIKey)

	body, err = c.get(ctx, c.blacklistURL, q)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, newError(KindEmptyBody, errors.Errorf("empty response for [%s]", req.TargetID))
	}

	return body, nil
}

// FetchProfile calls {nicknameURL}?qq={targetID}. Any answer with a code other than 200 is an error
func (c *Client) FetchProfile(ctx context.Context, targetID string) (p Profile, err error) {
	if c.nicknameURL == "" {
		return p, errors.New("nickname lookup not configured")
	}

	q := url.Values{}
	q.Set("qq", targetID)

	body, err := c.get(ctx, c.nicknameURL, q)
	if err != nil {
		return p, err
	}

	var payload profilePayload
	if err = json.Unmarshal(body, &payload); err != nil {
		return p, newError(KindMalformedJSON, err)
	}

	if payload.Code != profileSuccessCode {
		return p, errors.Errorf("nickname lookup for [%s] answered with code [%d]", targetID, payload.Code)
	}

	return Profile{DisplayName: payload.Name, AvatarURL: payload.Avatar}, nil
}

// get issues a GET on base with the query values and returns the body of a 2xx response.
// Transport errors are stripped of the request url since it carries the api key
func (c *Client) get(ctx context.Context, base string, q url.Values) (body []byte, err error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, newError(KindUnclassified, errors.Wrapf(err, "invalid upstream url [%s]", base))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newError(KindUnclassified, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindTransport, redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status [%s]", resp.Status)}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, redactURL(err))
	}

	return body, nil
}

// redactURL returns the error wrapped by a *url.Error, dropping the url it mentions
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}

	return err
}
