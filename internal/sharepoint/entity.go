package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpc "github.com/nucleus/ucl-sharepoint/internal/connector/http"
	"github.com/nucleus/ucl-sharepoint/internal/escape"
)

// Entity carries what every OData verbose entity has: its own URI and
// type, and the URIs of its deferred navigation properties.
type Entity struct {
	Metadata Metadata          `json:"__metadata"`
	Deferred map[string]string `json:"-"`

	client *Client
}

// URI is the canonical address of the entity.
func (e *Entity) URI() string { return e.Metadata.URI }

// Type is the remote entity type, e.g. SP.Data.TasksListItem.
func (e *Entity) Type() string { return e.Metadata.Type }

func (e *Entity) attach(c *Client, raw map[string]any) {
	e.client = c
	e.Deferred = make(map[string]string)
	for key, value := range raw {
		if uri, ok := deferredURI(value); ok {
			e.Deferred[key] = uri
		}
	}
}

// link returns the deferred URI for name, or the entity URI joined with
// fallback when the server did not send one.
func (e *Entity) link(name, fallback string) string {
	if uri, ok := e.Deferred[name]; ok {
		return uri
	}
	return e.Metadata.URI + "/" + fallback
}

// update PATCHes data onto the entity. Keys are escaped.
func (e *Entity) update(ctx context.Context, data map[string]any) error {
	payload := escape.EncodeKeys(data)
	payload["__metadata"] = map[string]any{"type": e.Metadata.Type}
	_, err := e.client.call(func(h *httpc.Client) (*httpc.Response, error) {
		return h.Patch(ctx, e.Metadata.URI, payload)
	})
	return err
}

func (e *Entity) delete(ctx context.Context) error {
	_, err := e.client.call(func(h *httpc.Client) (*httpc.Response, error) {
		return h.Delete(ctx, e.Metadata.URI)
	})
	return err
}

func deferredURI(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	d, ok := m["__deferred"].(map[string]any)
	if !ok {
		return "", false
	}
	uri, ok := d["uri"].(string)
	return uri, ok
}

// =============================================================================
// DECODING
// =============================================================================

type entity interface {
	attach(c *Client, raw map[string]any)
}

// envelope is the {"d": ...} wrapper of verbose responses.
type envelope struct {
	D json.RawMessage `json:"d"`
}

type collection struct {
	Results []json.RawMessage `json:"results"`
}

func unwrap(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(env.D) == 0 {
		return nil, fmt.Errorf("decode response: missing \"d\" envelope")
	}
	return env.D, nil
}

func decodeEntity[T any, P interface {
	*T
	entity
}](c *Client, data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	P(&v).attach(c, raw)
	return &v, nil
}

// fetchOne GETs a single entity.
func fetchOne[T any, P interface {
	*T
	entity
}](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	resp, err := c.call(func(h *httpc.Client) (*httpc.Response, error) {
		return h.Get(ctx, path, query)
	})
	if err != nil {
		return nil, err
	}
	return decodeResponse[T, P](c, resp)
}

func decodeResponse[T any, P interface {
	*T
	entity
}](c *Client, resp *httpc.Response) (*T, error) {
	data, err := unwrap(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeEntity[T, P](c, data)
}

// fetchAll GETs a collection and follows __next links to the end.
func fetchAll[T any, P interface {
	*T
	entity
}](ctx context.Context, c *Client, path string, query url.Values) ([]*T, error) {
	parse := func(resp *httpc.Response) ([]*T, error) {
		data, err := unwrap(resp.Body)
		if err != nil {
			return nil, err
		}
		var page collection
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode collection: %w", err)
		}
		out := make([]*T, 0, len(page.Results))
		for _, r := range page.Results {
			v, err := decodeEntity[T, P](c, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	it := httpc.NewPaginatedIterator(ctx, c.http,
		&httpc.Request{Method: http.MethodGet, Path: path, Query: query},
		httpc.NextLinkPaginator{}, parse)
	defer it.Close()
	all, err := it.Collect()
	if err != nil {
		return nil, remoteError(err)
	}
	return all, nil
}

// odataString quotes s as an OData string literal.
func odataString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
