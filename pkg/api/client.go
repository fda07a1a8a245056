package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/basequest/backend/pkg/xcontext"
)

type Client interface {
	Header(name, value string) Client
	Query(query Parameter) Client
	Body(body Body) Client
	POST(ctx context.Context) (*Response, error)
	GET(ctx context.Context) (*Response, error)
}

// Generator builds clients bound to a set of equivalent base urls. Each
// request tries the urls in a random order until one answers, which spreads
// load over redundant RPC endpoints and survives a dead one.
type Generator interface {
	New(path string, args ...any) Client
}

type generator struct {
	baseURLs []string
}

func NewGenerator(baseURLs ...string) *generator {
	return &generator{baseURLs: baseURLs}
}

func (g *generator) New(path string, args ...any) Client {
	return &client{
		baseURLs: g.baseURLs,
		path:     fmt.Sprintf(path, args...),
		headers:  make(http.Header),
	}
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

type client struct {
	baseURLs []string
	method   string
	path     string
	headers  http.Header
	query    Parameter
	body     Body
}

func (c *client) Header(name, value string) Client {
	c.headers.Set(name, value)
	return c
}

func (c *client) Query(query Parameter) Client {
	c.query = query
	return c
}

func (c *client) Body(body Body) Client {
	c.body = body
	return c
}

func (c *client) GET(ctx context.Context) (*Response, error) {
	c.method = http.MethodGet
	return c.do(ctx)
}

func (c *client) POST(ctx context.Context) (*Response, error) {
	c.method = http.MethodPost
	return c.do(ctx)
}

func (c *client) do(ctx context.Context) (*Response, error) {
	for _, i := range rand.Perm(len(c.baseURLs)) {
		url := c.baseURLs[i] + c.path
		if c.query != nil {
			url += "?" + c.query.Encode()
		}

		// The reader is rebuilt per attempt, a retry must resend the body.
		var reader io.Reader
		var contentType string
		if c.body != nil {
			var err error
			reader, contentType, err = c.body.ToReader()
			if err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, c.method, url, reader)
		if err != nil {
			return nil, err
		}

		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for name, values := range c.headers {
			for _, value := range values {
				req.Header.Add(name, value)
			}
		}

		resp, err := c.send(ctx, req)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Request to %s failed: %v", url, err)
			continue
		}

		return resp, nil
	}

	return nil, errors.New("no endpoint answered")
}

func (c *client) send(ctx context.Context, req *http.Request) (*Response, error) {
	result, err := xcontext.HTTPClient(ctx).Do(req)
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	raw, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Code:    result.StatusCode,
		Header:  result.Header,
		RawBody: raw,
	}

	switch {
	case len(raw) == 0:
		resp.Body = JSON{}
	default:
		if obj, err := bytesToJSON(raw); err == nil {
			resp.Body = obj
		} else if arr, err := bytesToArray(raw); err == nil {
			resp.Body = arr
		} else {
			return nil, fmt.Errorf("unparseable response body")
		}
	}

	return resp, nil
}
