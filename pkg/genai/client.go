package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	_ "image/jpeg" // register decoders for artifact validation
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mlehnert/stickerforge/pkg/cache"
	"github.com/mlehnert/stickerforge/pkg/errors"
	"github.com/mlehnert/stickerforge/pkg/httputil"
)

// DefaultTimeout bounds one generation call including retries.
const DefaultTimeout = 120 * time.Second

// DefaultCacheTTL is how long generated artifacts stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Client talks to the image-generation service. It handles request
// caching, retry on transient failures, and mapping the response envelope
// onto the application error taxonomy.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	cache    cache.Cache
	ttl      time.Duration
	retry    httputil.Policy
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache sets the response cache. Defaults to a null cache.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		if c != nil {
			cl.cache = c
		}
		if ttl > 0 {
			cl.ttl = ttl
		}
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithTimeout bounds one generation call including retries. Non-positive
// values keep [DefaultTimeout].
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithRetryPolicy replaces the transient-failure retry policy.
func WithRetryPolicy(p httputil.Policy) Option {
	return func(cl *Client) { cl.retry = p }
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// NewClient creates a client for the service at endpoint. The API key is
// sent as a bearer token; pass "" for unauthenticated local services.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		cache:    cache.NewNullCache(),
		ttl:      DefaultCacheTTL,
		retry:    httputil.DefaultPolicy,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate performs one generation call and returns the new artifact.
//
// The request must carry either an instruction or placements; placements
// are formatted into instruction text via [Instruction]. Responses are
// cached keyed by a hash of the artifact and the final instruction, so
// retrying an identical composition is free.
func (c *Client) Generate(ctx context.Context, req Request) ([]byte, error) {
	instruction := req.Instruction
	if instruction == "" {
		instruction = Instruction(req.Placements)
	}
	if instruction == "" {
		return nil, errors.New(errors.ErrCodeEmptyInput, "nothing to apply")
	}
	if len(req.Artifact) == 0 {
		return nil, errors.New(errors.ErrCodeNoDocument, "no image loaded")
	}

	key := cache.Key("genai", cache.Hash(req.Artifact), instruction)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		c.logger.Debug("generation cache hit", "key", key[:16])
		return data, nil
	}

	body := wireRequest{
		Image:       base64.StdEncoding.EncodeToString(req.Artifact),
		Instruction: instruction,
		Placements:  req.Placements,
	}

	var artifact []byte
	err := c.retry.Do(ctx, func() error {
		var callErr error
		artifact, callErr = c.call(ctx, body)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, key, artifact, c.ttl)
	return artifact, nil
}

func (c *Client) call(ctx context.Context, body wireRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "generation request failed"),
		}
	}
	defer resp.Body.Close()
	c.logger.Debug("generation response", "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= 500 {
		return nil, &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "generation service error (status %d)", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeGeneration, "generation rejected (status %d)", resp.StatusCode)
	}

	var envelope wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "malformed response envelope")
	}
	return decodeEnvelope(envelope)
}

// decodeEnvelope maps the service envelope onto an artifact or a typed
// failure.
func decodeEnvelope(envelope wireResponse) ([]byte, error) {
	switch envelope.FinishReason {
	case finishOK, "":
		// fall through to image extraction
	case finishBlocked:
		return nil, errors.New(errors.ErrCodeBlocked, "the request was blocked: %s", reason(envelope.Error))
	case finishDegraded:
		return nil, errors.New(errors.ErrCodeDegraded, "the result finished degraded: %s", reason(envelope.Error))
	default:
		return nil, errors.New(errors.ErrCodeGeneration, "unexpected finish reason %q", envelope.FinishReason)
	}

	if envelope.Image == "" {
		return nil, errors.New(errors.ErrCodeNoImage, "the service returned no image")
	}
	artifact, err := base64.StdEncoding.DecodeString(envelope.Image)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "response image is not valid base64")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(artifact)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "response data cannot be decoded as an image")
	}
	return artifact, nil
}

func reason(msg string) string {
	if msg == "" {
		return "no detail provided"
	}
	return msg
}
