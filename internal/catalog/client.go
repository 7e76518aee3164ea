package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/refname"
	"github.com/forgeui/forgeui/internal/workspace"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// DefaultMaxBodyBytes caps catalog response bodies before parsing.
const DefaultMaxBodyBytes = 10 << 20

var (
	queryPattern = regexp.MustCompile(`^[A-Za-z0-9_.=&-]*$`)

	// Path segments a catalog URL must never target, regardless of host.
	deniedPathSegments = map[string]struct{}{
		"..":     {},
		".git":   {},
		".env":   {},
		".ssh":   {},
		".aws":   {},
		".npmrc": {},
	}
)

// Options configures a catalog Client.
type Options struct {
	BaseURL    string
	Style      string
	HTTPClient *http.Client
	Cache      *Cache
	Guard      *workspace.Guard
	Log        *logger.Logger

	// ExtraAllowedHosts widens the host allow-list beyond the base host and
	// loopback, for mirrors.
	ExtraAllowedHosts []string

	// MaxBodyBytes overrides DefaultMaxBodyBytes when positive.
	MaxBodyBytes int64
}

// Client fetches catalog documents with strict pre-dispatch URL validation
// and post-dispatch response validation. Index fetches may be served from the
// injected cache; the caller chooses per call.
type Client struct {
	base         *url.URL
	style        string
	http         *http.Client
	cache        *Cache
	guard        *workspace.Guard
	log          *logger.Logger
	allowedHosts map[string]struct{}
	allowedPorts map[string]struct{}
	maxBody      int64
}

// New validates the catalog base URL and style and builds a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, forgeuierrors.NewUntrustedResponse(opts.BaseURL, "catalog base URL does not parse")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, forgeuierrors.NewUntrustedResponse(opts.BaseURL, fmt.Sprintf("scheme %q is not allowed", base.Scheme))
	}
	if base.Host == "" {
		return nil, forgeuierrors.NewUntrustedResponse(opts.BaseURL, "catalog base URL has no host")
	}
	if err := ValidateStyleName(opts.Style); err != nil {
		return nil, err
	}

	hosts := map[string]struct{}{
		base.Hostname(): {},
		"localhost":     {},
		"127.0.0.1":     {},
	}
	for _, h := range opts.ExtraAllowedHosts {
		hosts[h] = struct{}{}
	}

	ports := map[string]struct{}{"": {}, "80": {}, "443": {}}
	if p := base.Port(); p != "" {
		ports[p] = struct{}{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	cache := opts.Cache
	if cache == nil {
		cache = NewCache()
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	return &Client{
		base:         base,
		style:        opts.Style,
		http:         httpClient,
		cache:        cache,
		guard:        opts.Guard,
		log:          opts.Log.WithComponent("catalog"),
		allowedHosts: hosts,
		allowedPorts: ports,
		maxBody:      maxBody,
	}, nil
}

// Style returns the active style name.
func (c *Client) Style() string {
	return c.style
}

// FetchIndex retrieves the catalog's index document. The list read path
// passes fresh=true so callers always see the current catalog; resolution
// passes fresh=false so one pass observes one consistent index.
func (c *Client) FetchIndex(ctx context.Context, fresh bool) ([]ItemSummary, error) {
	body, err := c.fetchRemote(ctx, c.indexURL(), !fresh)
	if err != nil {
		return nil, err
	}

	var summaries []ItemSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, forgeuierrors.NewSchemaViolation("catalog index", []forgeuierrors.FieldViolation{
			{Field: "index", Message: err.Error()},
		}, err)
	}
	for i := range summaries {
		if err := ValidateSummary(&summaries[i]); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// FetchItem resolves ref through the name classifier and retrieves one
// catalog item: bare names against the configured base and active style,
// URLs directly after boundary validation, local manifests through the
// workspace guard.
func (c *Client) FetchItem(ctx context.Context, ref string) (*Item, error) {
	kind, err := refname.Classify(ref)
	if err != nil {
		return nil, err
	}

	switch kind {
	case refname.KindURL:
		body, err := c.fetchRemote(ctx, ref, true)
		if err != nil {
			return nil, err
		}
		return parseItem(body, false)

	case refname.KindLocalFile:
		return c.readLocalItem(ref)

	default:
		body, err := c.fetchRemote(ctx, c.itemURL(ref), true)
		if err != nil {
			return nil, err
		}
		return parseItem(body, false)
	}
}

// FetchBaseColor retrieves the named color-theme document.
func (c *Client) FetchBaseColor(ctx context.Context, name string) (*BaseColor, error) {
	if err := ValidateStyleName(name); err != nil {
		return nil, err
	}

	body, err := c.fetchRemote(ctx, c.colorURL(name), true)
	if err != nil {
		return nil, err
	}

	var color BaseColor
	if err := json.Unmarshal(body, &color); err != nil {
		return nil, forgeuierrors.NewSchemaViolation("base color", []forgeuierrors.FieldViolation{
			{Field: "color", Message: err.Error()},
		}, err)
	}
	if color.Name == "" {
		color.Name = name
	}
	if err := ValidateBaseColor(&color); err != nil {
		return nil, err
	}
	return &color, nil
}

func (c *Client) indexURL() string {
	return c.base.JoinPath("index.json").String()
}

func (c *Client) itemURL(name string) string {
	return c.base.JoinPath("styles", c.style, name+".json").String()
}

func (c *Client) colorURL(name string) string {
	return c.base.JoinPath("colors", name+".json").String()
}

func (c *Client) readLocalItem(ref string) (*Item, error) {
	if c.guard == nil {
		return nil, forgeuierrors.NewPathOutsideWorkspace(ref, "")
	}
	path, err := c.guard.Resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, forgeuierrors.NewNotFound(ref)
	}
	if int64(len(data)) > c.maxBody {
		return nil, forgeuierrors.NewUntrustedResponse(ref, "manifest exceeds size cap")
	}

	lower := strings.ToLower(ref)
	isYAML := strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
	return parseItem(data, isYAML)
}

func (c *Client) fetchRemote(ctx context.Context, rawURL string, useCache bool) ([]byte, error) {
	if err := c.validateRemoteURL(rawURL); err != nil {
		return nil, err
	}

	if useCache {
		if body, ok := c.cache.Get(rawURL); ok {
			c.log.WithFields(map[string]any{"url": rawURL}).Debug("cache hit")
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, forgeuierrors.NewNotFound(rawURL)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, forgeuierrors.NewUnauthorized(rawURL)
	case resp.StatusCode == http.StatusForbidden:
		return nil, forgeuierrors.NewForbidden(rawURL)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "json") {
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("unexpected content type %q", contentType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, err.Error())
	}
	if int64(len(body)) > c.maxBody {
		return nil, forgeuierrors.NewUntrustedResponse(rawURL, "response exceeds size cap")
	}

	if useCache {
		c.cache.Set(rawURL, body)
	}
	return body, nil
}

func (c *Client) validateRemoteURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return forgeuierrors.NewUntrustedResponse(rawURL, "URL does not parse")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("scheme %q is not allowed", u.Scheme))
	}
	if _, ok := c.allowedHosts[u.Hostname()]; !ok {
		return forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("host %q is not on the allow-list", u.Hostname()))
	}
	if _, ok := c.allowedPorts[u.Port()]; !ok {
		return forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("port %q is not on the allow-list", u.Port()))
	}

	for _, segment := range strings.Split(u.EscapedPath(), "/") {
		if _, denied := deniedPathSegments[segment]; denied {
			return forgeuierrors.NewUntrustedResponse(rawURL, fmt.Sprintf("path segment %q is denied", segment))
		}
	}

	if len(u.RawQuery) > 256 {
		return forgeuierrors.NewUntrustedResponse(rawURL, "query string exceeds length bound")
	}
	if !queryPattern.MatchString(u.RawQuery) {
		return forgeuierrors.NewUntrustedResponse(rawURL, "query string contains disallowed characters")
	}

	return nil
}

func parseItem(data []byte, isYAML bool) (*Item, error) {
	var item Item
	if isYAML {
		if err := yaml.Unmarshal(data, &item); err != nil {
			return nil, forgeuierrors.NewSchemaViolation("catalog item", []forgeuierrors.FieldViolation{
				{Field: "item", Message: err.Error()},
			}, err)
		}
	} else {
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, forgeuierrors.NewSchemaViolation("catalog item", []forgeuierrors.FieldViolation{
				{Field: "item", Message: err.Error()},
			}, err)
		}
	}

	if err := ValidateItem(&item); err != nil {
		return nil, err
	}
	return &item, nil
}
