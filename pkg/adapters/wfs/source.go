// Package wfs describes datasets served by an OGC Web Feature Service.
//
// Features are requested as GeoJSON and summarised by the geojson adapter.
package wfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/cartograph/pkg/adapters/geojson"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
)

// FormatName is reported in parse errors and dataset descriptions.
const FormatName = "WFS"

// DefaultMaxFeatures caps the GetFeature request.
const DefaultMaxFeatures = 1000

// maxBody bounds the response size read from the service.
const maxBody = 32 << 20

// ErrMissingTypeName is returned when the URL names no feature type.
var ErrMissingTypeName = errors.New("WFS URL requires a typeName parameter")

// Source implements ports.DataSource for WFS endpoints.
type Source struct {
	client      *http.Client
	maxFeatures int
}

var _ ports.DataSource = (*Source)(nil)

// Option configures the Source.
type Option func(*Source)

// WithHTTPClient sets the client used for GetFeature requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.client = c
	}
}

// WithMaxFeatures overrides DefaultMaxFeatures.
func WithMaxFeatures(n int) Option {
	return func(s *Source) {
		s.maxFeatures = n
	}
}

// New creates a WFS source.
func New(opts ...Option) *Source {
	s := &Source{
		client:      &http.Client{Timeout: 30 * time.Second},
		maxFeatures: DefaultMaxFeatures,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements ports.Source.
func (s *Source) Name() string { return FormatName }

// CanHandle accepts URL inputs that address a WFS (service=WFS in the query).
func (s *Source) CanHandle(in ports.Input) bool {
	if in.URL == "" {
		return false
	}
	u, err := url.Parse(in.URL)
	if err != nil {
		return false
	}
	return strings.EqualFold(queryValue(u.Query(), "service"), "WFS")
}

// Parse issues a GetFeature request and describes the returned features.
func (s *Source) Parse(ctx context.Context, in ports.Input) (domain.DatasetDescription, error) {
	reqURL, typeName, err := s.getFeatureURL(in.URL)
	if err != nil {
		return domain.DatasetDescription{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.DatasetDescription{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.DatasetDescription{}, fmt.Errorf("GetFeature request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DatasetDescription{}, fmt.Errorf("GetFeature returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.DatasetDescription{}, fmt.Errorf("failed to read GetFeature response: %w", err)
	}

	data, err := geojson.Describe(body)
	if err != nil {
		return domain.DatasetDescription{}, err
	}
	data.Format = FormatName
	data.Name = typeName
	return data, nil
}

// getFeatureURL completes the query of a WFS URL for a GeoJSON GetFeature request.
func (s *Source) getFeatureURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid WFS URL: %w", err)
	}
	q := u.Query()

	typeName := queryValue(q, "typeName")
	if typeName == "" {
		typeName = queryValue(q, "typeNames")
	}
	if typeName == "" {
		return "", "", ErrMissingTypeName
	}

	setDefault(q, "service", "WFS")
	setDefault(q, "version", "2.0.0")
	setDefault(q, "request", "GetFeature")
	setDefault(q, "outputFormat", "application/json")
	if s.maxFeatures > 0 && queryValue(q, "count") == "" && queryValue(q, "maxFeatures") == "" {
		q.Set("count", fmt.Sprint(s.maxFeatures))
	}
	u.RawQuery = q.Encode()
	return u.String(), typeName, nil
}

// queryValue looks a parameter up case-insensitively, as OGC services do.
func queryValue(q url.Values, key string) string {
	for k, v := range q {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func setDefault(q url.Values, key, value string) {
	if queryValue(q, key) == "" {
		q.Set(key, value)
	}
}
