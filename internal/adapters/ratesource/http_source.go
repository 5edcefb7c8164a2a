// Package ratesource fetches the daily term-keyed rate feed over HTTP. The
// feed payload is checked against an embedded JSON Schema before anything is
// decoded, so a malformed upstream publish never reaches storage.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxFeedBodySize     = 1 << 20
)

const feedSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["rates"],
	"properties": {
		"rates": {
			"type": "object",
			"minProperties": 1,
			"patternProperties": {
				"^[0-9]{1,2}$": {
					"type": "array",
					"minItems": 1,
					"items": {"type": "number", "exclusiveMinimum": 0}
				}
			},
			"additionalProperties": false
		}
	}
}`

type feedPayload struct {
	AsOf  string               `json:"as_of"`
	Rates map[string][]float64 `json:"rates"`
}

type HTTPSource struct {
	url    string
	client *http.Client
	schema *santhosh.Schema
}

// NewHTTPSource builds a source for the feed at url. A zero or negative
// timeout falls back to defaultFetchTimeout.
func NewHTTPSource(url string, timeout time.Duration) (*HTTPSource, error) {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource("feed.json", strings.NewReader(feedSchema)); err != nil {
		return nil, fmt.Errorf("add feed schema: %w", err)
	}
	schema, err := compiler.Compile("feed.json")
	if err != nil {
		return nil, fmt.Errorf("compile feed schema: %w", err)
	}

	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		schema: schema,
	}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (domain.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate feed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		return nil, fmt.Errorf("read rate feed body: %w", err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode rate feed: %w", err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("rate feed failed schema validation: %w", err)
	}

	var payload feedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode rate feed: %w", err)
	}

	table := make(domain.RateTable, len(payload.Rates))
	for key, rates := range payload.Rates {
		term, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("rate feed term %q is not a number", key)
		}
		table[term] = rates
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("rate feed rejected: %w", err)
	}
	return table, nil
}
