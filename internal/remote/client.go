// Package remote implements the client for the tag authority's GraphQL
// endpoint. The wire shape is a JSON POST of {query, variables}; responses
// carry {data, errors}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/asteroid-belt/versetag/internal/models"
)

// DefaultRateLimit is requests per minute against the authority.
const DefaultRateLimit = 60

// TagSetUpdate is the authoritative incremental response to a submission:
// every tag set row that changed for the version since the supplied cursor,
// plus the new cursor value.
type TagSetUpdate struct {
	TagSets   []models.TagSet `json:"tagSets"`
	NewCursor int64           `json:"newUpdatedFrom"`
}

// Client is the remote call surface consumed by the sync engine.
type Client interface {
	// SubmitTagSet pushes one tag set and returns all tag set changes for
	// the version since updatedFrom.
	SubmitTagSet(ctx context.Context, input models.TagSetInput, updatedFrom int64) (*TagSetUpdate, error)

	// SubmitWordHashesSets uploads one batch of per-verse word hashes.
	SubmitWordHashesSets(ctx context.Context, inputs []models.WordHashesSetInput) error
}

// Config holds remote endpoint settings.
type Config struct {
	Endpoint  string
	Token     string
	RateLimit int // requests per minute; 0 uses DefaultRateLimit
}

// HTTPClient talks to the live authority endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ Client = (*HTTPClient)(nil)

// New creates a client for the given endpoint. When a token is configured
// requests carry it as a bearer credential.
func New(cfg Config) *HTTPClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 30 * time.Second
	}

	rpm := cfg.RateLimit
	if rpm <= 0 {
		rpm = DefaultRateLimit
	}

	return &HTTPClient{
		endpoint: cfg.Endpoint,
		client:   httpClient,
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

const submitTagSetQuery = `mutation ($input: TagSetInput!, $updatedFrom: Milliseconds!) {
  submitTagSet(input: $input, updatedFrom: $updatedFrom) {
    tagSets { id tags status savedAt }
    newUpdatedFrom
  }
}`

// SubmitTagSet implements Client.
func (c *HTTPClient) SubmitTagSet(ctx context.Context, input models.TagSetInput, updatedFrom int64) (*TagSetUpdate, error) {
	var payload struct {
		SubmitTagSet struct {
			TagSets []struct {
				ID      string              `json:"id"`
				Tags    json.RawMessage     `json:"tags"`
				Status  models.TagSetStatus `json:"status"`
				SavedAt int64               `json:"savedAt"`
			} `json:"tagSets"`
			NewUpdatedFrom int64 `json:"newUpdatedFrom"`
		} `json:"submitTagSet"`
	}

	err := c.do(ctx, "submitTagSet", submitTagSetQuery, map[string]any{
		"input":       input,
		"updatedFrom": updatedFrom,
	}, &payload)
	if err != nil {
		return nil, err
	}

	update := &TagSetUpdate{NewCursor: payload.SubmitTagSet.NewUpdatedFrom}
	for _, row := range payload.SubmitTagSet.TagSets {
		loc, versionID, wordsHash, err := models.ParseTagSetID(row.ID)
		if err != nil {
			return nil, &RequestError{Op: "submitTagSet", Message: err.Error()}
		}
		update.TagSets = append(update.TagSets, models.TagSet{
			ID:        row.ID,
			VersionID: versionID,
			Loc:       loc,
			WordsHash: wordsHash,
			Status:    row.Status,
			Tags:      string(row.Tags),
			SavedAt:   row.SavedAt,
		})
	}
	return update, nil
}

const submitWordHashesSetsQuery = `mutation ($input: [WordHashesSetInput]!) {
  submitWordHashesSets(input: $input)
}`

// SubmitWordHashesSets implements Client.
func (c *HTTPClient) SubmitWordHashesSets(ctx context.Context, inputs []models.WordHashesSetInput) error {
	var payload struct {
		SubmitWordHashesSets bool `json:"submitWordHashesSets"`
	}
	return c.do(ctx, "submitWordHashesSets", submitWordHashesSetsQuery, map[string]any{
		"input": inputs,
	}, &payload)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do performs one GraphQL round trip, unmarshalling the data field into out.
func (c *HTTPClient) do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		// DNS failures, refused connections, timeouts: the caller treats
		// these as "offline", not as rejections.
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(raw, &gqlResp); err != nil {
		return &RequestError{Op: op, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(gqlResp.Errors) > 0 {
		return &RequestError{Op: op, Message: gqlResp.Errors[0].Message}
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return &RequestError{Op: op, Message: fmt.Sprintf("decode %s data: %v", op, err)}
		}
	}
	return nil
}
