package portal

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options tune the HTTP transport and token lifetime.
type Options struct {
	Timeout    time.Duration
	Insecure   bool // skip TLS verification
	Expiration int  // token lifetime in minutes
}

// Client is an authenticated client for a portal's sharing REST API.
type Client struct {
	session    models.Session
	restURL    string
	httpClient *http.Client
}

// NewClient creates a Client for a session. The session's token, if any, is sent
// with every request; use Login to obtain one.
func NewClient(sess models.Session, opts Options) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		session: sess,
		restURL: sess.RestURL(),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

// Login exchanges the session's username and password for a token and returns
// a client bound to the resulting session.
func Login(ctx context.Context, sess models.Session, opts Options) (*Client, error) {
	if sess.Username == "" || sess.Password == "" {
		return nil, fmt.Errorf("no credentials configured")
	}
	c := NewClient(sess, opts)

	expiration := opts.Expiration
	if expiration <= 0 {
		expiration = 60
	}
	form := url.Values{
		"username":   {sess.Username},
		"password":   {sess.Password},
		"client":     {"referer"},
		"referer":    {sess.ClientID},
		"expiration": {strconv.Itoa(expiration)},
	}

	var resp struct {
		Token   string `json:"token"`
		Expires int64  `json:"expires"`
	}
	if err := c.PostJSON(ctx, "/generateToken", form, &resp); err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("generating token: empty token in response")
	}

	sess.Token = resp.Token
	if resp.Expires > 0 {
		sess.Expires = time.UnixMilli(resp.Expires)
	}
	c.session = sess
	return c, nil
}

// Session returns a copy of the client's session.
func (c *Client) Session() models.Session {
	return c.session
}

// errorEnvelope catches the portal's error object, which may arrive with HTTP 200.
type errorEnvelope struct {
	Error *models.PortalError `json:"error"`
}

// Get performs an authenticated GET request and returns the response body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := c.withDefaults(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, "GET", path)
}

// GetJSON performs an authenticated GET and unmarshals the response into dest.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	body, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

// Post performs an authenticated form-encoded POST request.
func (c *Client) Post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	f := c.withDefaults(form)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL+path, strings.NewReader(f.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, "POST", path)
}

// PostJSON performs an authenticated POST and unmarshals the response into dest.
func (c *Client) PostJSON(ctx context.Context, path string, form url.Values, dest interface{}) error {
	body, err := c.Post(ctx, path, form)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

func (c *Client) withDefaults(params url.Values) url.Values {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("f", "json")
	if c.session.Token != "" {
		q.Set("token", c.session.Token)
	}
	return q
}

func (c *Client) do(req *http.Request, method, path string) ([]byte, error) {
	if c.session.ClientID != "" {
		req.Header.Set("Referer", c.session.ClientID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env errorEnvelope
		if json.Unmarshal(body, &env) == nil && env.Error != nil {
			return body, fmt.Errorf("%s %s: %w", method, path, env.Error)
		}
		return body, fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// decode returns the portal error carried in body, if any, before unmarshaling into dest.
func decode(body []byte, dest interface{}) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if env.Error != nil {
		return env.Error
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
