package sharepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	httpc "github.com/nucleus/ucl-sharepoint/internal/connector/http"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Headers sent with every API request.
var defaultHeaders = map[string]string{
	"Accept":       "application/json;odata=verbose",
	"Content-Type": "application/json;odata=verbose",
	"IF-MATCH":     "*",
}

// Client talks to the REST API of one SharePoint site.
type Client struct {
	config *Config
	http   *httpc.Client
	logger *slog.Logger
}

// New creates a client for cfg. Unless opts supplies a TokenSource, tokens
// come from the app-only client-credentials flow and are cached until they
// expire.
func New(cfg *Config, opts Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sharepoint: nil config")
	}
	if opts.TokenSource == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := opts.TokenSource
	if source == nil {
		source = cfg.tokenSource(opts.Transport)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = cfg.APIURL()
	}

	return &Client{
		config: cfg,
		logger: logger,
		http: httpc.NewClient(&httpc.ClientConfig{
			BaseURL:    baseURL,
			Auth:       httpc.TokenSourceAuth{Source: oauth2.ReuseTokenSource(nil, source)},
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			Backoff:    opts.Backoff,
			RateLimit:  opts.RateLimit,
			RateBurst:  opts.RateBurst,
			Headers:    defaultHeaders,
			Transport:  opts.Transport,
			Logger:     logger,
		}),
	}, nil
}

// tokenSource builds the client-credentials flow. ACS wants the client ID
// qualified with the tenant and a resource instead of a scope.
func (c *Config) tokenSource(transport http.RoundTripper) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     c.Principal(),
		ClientSecret: c.Secret,
		TokenURL:     c.tokenEndpoint(),
		EndpointParams: url.Values{
			"resource": {c.Resource()},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}
	ctx := context.Background()
	if transport != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport})
	}
	return cc.TokenSource(ctx)
}

// BaseURL is the REST root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// call runs one request and maps HTTP failures to *RemoteError.
func (c *Client) call(do func(h *httpc.Client) (*httpc.Response, error)) (*httpc.Response, error) {
	resp, err := do(c.http)
	if err != nil {
		return nil, remoteError(err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*httpc.Response, error) {
	return c.call(func(h *httpc.Client) (*httpc.Response, error) {
		return h.Post(ctx, path, body)
	})
}

// =============================================================================
// FOLDERS
// =============================================================================

// GetFolder returns the folder at a server-relative path such as
// "Shared Documents/reports".
func (c *Client) GetFolder(ctx context.Context, path string) (*Folder, error) {
	return fetchOne[Folder](ctx, c, "GetFolderByServerRelativeUrl("+odataString(path)+")", nil)
}

// RootFolder returns the site's default document library folder.
func (c *Client) RootFolder(ctx context.Context) (*Folder, error) {
	return c.GetFolder(ctx, DefaultFolder)
}

// =============================================================================
// LISTS
// =============================================================================

// GetList returns the list with the given title.
func (c *Client) GetList(ctx context.Context, title string) (*List, error) {
	return fetchOne[List](ctx, c, "lists/GetByTitle("+odataString(title)+")", nil)
}

// Lists returns every visible list that is not a catalog.
func (c *Client) Lists(ctx context.Context) ([]*List, error) {
	query := url.Values{"$filter": {"Hidden eq false and IsCatalog eq false"}}
	return fetchAll[List](ctx, c, "lists", query)
}

// CreateList creates a list named name. Unless opts.KeepTitleRequired is
// set, the built-in Title column is made optional afterwards.
func (c *Client) CreateList(ctx context.Context, name string, opts ListOptions) (*List, error) {
	template := TemplateGenericList
	if opts.DocumentLibrary {
		template = TemplateDocumentLibrary
	}
	payload := map[string]any{
		"__metadata":          map[string]any{"type": "SP.List"},
		"AllowContentTypes":   true,
		"BaseTemplate":        template,
		"ContentTypesEnabled": true,
		"Title":               name,
	}
	if opts.Description != "" {
		payload["Description"] = opts.Description
	}

	resp, err := c.post(ctx, "lists", payload)
	if err != nil {
		return nil, err
	}
	list, err := decodeResponse[List](c, resp)
	if err != nil {
		return nil, err
	}
	c.logger.Info("list created", "title", list.Title, "template", template)

	if !opts.KeepTitleRequired {
		title, err := list.FieldByStaticName(ctx, "Title")
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		if err := title.Update(ctx, map[string]any{"Required": false}); err != nil {
			return nil, fmt.Errorf("list %s: make Title optional: %w", name, err)
		}
	}
	return list, nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a lookup by name matches nothing.
var ErrNotFound = errors.New("not found")

// RemoteError is a request the server rejected. It wraps the transport's
// *http.HTTPError and carries the OData error code and message when the
// body had one.
type RemoteError struct {
	Code    string
	Message string
	Err     *httpc.HTTPError
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("sharepoint: %s %s: %d %s: %s", e.Err.Method, e.Err.URL, e.Err.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("sharepoint: %s %s: %d: %s", e.Err.Method, e.Err.URL, e.Err.StatusCode, msg)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// StatusCode is the HTTP status of the failed request.
func (e *RemoteError) StatusCode() int { return e.Err.StatusCode }

// remoteError converts any *HTTPError in err's chain. Other errors are
// returned as they are.
func remoteError(err error) error {
	var httpErr *httpc.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	re := &RemoteError{Err: httpErr}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message struct {
				Value string `json:"value"`
			} `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(httpErr.Message), &body) == nil {
		re.Code = body.Error.Code
		re.Message = strings.TrimSpace(body.Error.Message.Value)
	}
	return re
}
