package bpm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/bpmops/flowadmin/internal/logging"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// Headers exchanged with the engine.
const (
	HeaderAPIToken  = "X-Bonita-API-Token"
	HeaderRequestID = "X-Request-ID"
)

// Error messages attached to transport failures.
const (
	errorListingFlowNodes = "error listing failed flow nodes"
	errorListingProcesses = "error listing processes"
	errorCountingFlowNode = "error counting failed flow nodes"
	errorLoggingIn        = "error logging in"
)

// ErrTotalUnknown is returned by CountFailedFlowNodes when the response has no range.
var ErrTotalUnknown = errors.New("response carries no Content-Range total")

// FlowNodePage is one response of the failed flow node endpoint.
type FlowNodePage struct {
	Query FlowNodeQuery
	Items []FlowNode

	// Range is the decoded Content-Range header; RangeOK is false when absent or malformed.
	Range   Range
	RangeOK bool
}

// Range is re-exported so callers of this package rarely need the pagination import.
type Range = pagination.Range

// Client talks to the engine REST API.
type Client struct {
	rest *resty.Client
	log  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logging.ComponentLogger(l, "bpm")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest.SetTimeout(d)
		}
	}
}

// New creates a client for the engine at baseURL (for example "http://localhost:8080/bonita").
func New(baseURL string, opts ...Option) *Client {
	return NewWithClient(resty.New().SetBaseURL(baseURL), opts...)
}

// NewWithClient wraps an existing resty client, which lets tests install httpmock on it.
func NewWithClient(rc *resty.Client, opts ...Option) *Client {
	c := &Client{rest: rc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resty exposes the underlying resty client.
func (c *Client) Resty() *resty.Client {
	return c.rest
}

// Login opens a session and keeps the API token for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.request(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
			"redirect": "false",
		}).
		Post(LoginPath)
	if err != nil {
		return pkgerrors.WithMessage(err, errorLoggingIn)
	}
	if resp == nil {
		return ErrNilResponse
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %w", ErrLoginFailed, apiError(LoginPath, resp))
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == HeaderAPIToken {
			c.rest.SetHeader(HeaderAPIToken, cookie.Value)
			break
		}
	}
	c.log.Debug().Ctx(ctx).Str("username", username).Msg("session opened")
	return nil
}

// ListFailedFlowNodes runs a failed flow node search.
func (c *Client) ListFailedFlowNodes(ctx context.Context, q FlowNodeQuery) (*FlowNodePage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	path := FlowNodePath + "?" + q.Encode()
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, pkgerrors.WithMessage(err, errorListingFlowNodes)
	}

	var items []FlowNode
	if err := decode(resp, &items); err != nil {
		return nil, pkgerrors.WithMessage(err, errorListingFlowNodes)
	}

	page := &FlowNodePage{Query: q, Items: items}
	page.Range, page.RangeOK = pagination.ParseRange(resp.Header().Get(pagination.HeaderContentRange))
	if !page.RangeOK {
		c.log.Debug().Ctx(ctx).Str("path", path).Msg("no pagination metadata in response")
	}
	return page, nil
}

// ListProcesses returns every deployed process ordered by display name.
func (c *Client) ListProcesses(ctx context.Context) ([]Process, error) {
	resp, err := c.get(ctx, ProcessPath+"?"+processListQuery())
	if err != nil {
		return nil, pkgerrors.WithMessage(err, errorListingProcesses)
	}

	var processes []Process
	if err := decode(resp, &processes); err != nil {
		return nil, pkgerrors.WithMessage(err, errorListingProcesses)
	}
	return processes, nil
}

// CountFailedFlowNodes returns the number of failed flow nodes of a process (all
// processes when processID is empty), read from the Content-Range total.
func (c *Client) CountFailedFlowNodes(ctx context.Context, processID string) (int, error) {
	resp, err := c.get(ctx, FlowNodePath+"?"+countQuery(processID))
	if err != nil {
		return 0, pkgerrors.WithMessage(err, errorCountingFlowNode)
	}
	r, ok := pagination.ParseRange(resp.Header().Get(pagination.HeaderContentRange))
	if !ok {
		return 0, ErrTotalUnknown
	}
	return r.Total, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.rest.R().SetContext(ctx)
	if id := logging.TraceIDFromContext(ctx); id != "" {
		req.SetHeader(HeaderRequestID, id)
	}
	return req
}

func (c *Client) get(ctx context.Context, path string) (*resty.Response, error) {
	start := time.Now()
	resp, err := c.request(ctx).Get(path)
	if err != nil {
		c.log.Error().Ctx(ctx).Err(err).Str("path", path).Msg("GET failed")
		return nil, err
	}
	if resp == nil {
		return nil, ErrNilResponse
	}

	c.log.Debug().Ctx(ctx).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("took", time.Since(start)).
		Msg("GET")

	if resp.IsError() {
		return nil, apiError(path, resp)
	}
	return resp, nil
}

func decode(resp *resty.Response, v any) error {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error unmarshalling response: %w", err)
	}
	return nil
}

func apiError(path string, resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode(), Path: path}
	var body engineError
	if json.Unmarshal(resp.Body(), &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else if resp.StatusCode() >= http.StatusInternalServerError {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}
