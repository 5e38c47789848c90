// internal/membership/client.go
package membership

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cookiegate/internal/cache"
	"cookiegate/internal/observability/logging"
	"cookiegate/internal/observability/metrics"

	"github.com/sony/gobreaker/v2"
)

// Default timeouts. The remote is a slow administrative backend; the request
// timeout bounds how long a cache miss can stall an inbound request.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 120 * time.Second
)

// Credentials is the privileged admin credential pair used for remote lookups.
type Credentials struct {
	Name     string
	Password string
}

// lookupKey scopes cache entries per (project, server, admin credentials)
// combination, so a credential rotation never serves results fetched under
// the old pair.
type lookupKey struct {
	Project string
	Server  string
	Admin   Credentials
}

// remoteResponse is a fully-read membership service response.
type remoteResponse struct {
	status int
	body   []byte
}

// Config holds membership client configuration
type Config struct {
	// Server is the base URL of the membership service
	Server string

	// Admin is the privileged credential pair
	Admin Credentials

	// Timeout bounds each remote round trip; DefaultTimeout when zero
	Timeout time.Duration

	// CacheTTL is how long member listings and policies stay fresh;
	// DefaultCacheTTL when zero
	CacheTTL time.Duration
}

// Client fetches project member listings and policy metadata from the remote
// membership service. Successful results are cached for the configured TTL;
// failed lookups are never cached and are retried on the next call.
type Client struct {
	server   string
	admin    Credentials
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[*remoteResponse]
	members  *cache.Cache[lookupKey, []Member]
	policies *cache.Cache[lookupKey, ProjectPolicy]
	logger   *logging.Logger
	metrics  *metrics.Collector
}

// New creates a membership client.
func New(config Config, logger *logging.Logger, collector *metrics.Collector) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ttl := config.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	c := &Client{
		server: strings.TrimRight(config.Server, "/"),
		admin:  config.Admin,
		http: &http.Client{
			Timeout: timeout,
			// The remote answers auth failures with redirects; those must
			// surface as statuses, not be followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		breaker: gobreaker.NewCircuitBreaker[*remoteResponse](gobreaker.Settings{
			Name: "membership",
		}),
		members:  cache.New[lookupKey, []Member](ttl),
		policies: cache.New[lookupKey, ProjectPolicy](ttl),
		logger:   logger.WithModule("membership"),
		metrics:  collector,
	}

	c.members.Hit = func() { collector.RecordCacheLookup("members", true) }
	c.members.Miss = func() { collector.RecordCacheLookup("members", false) }
	c.policies.Hit = func() { collector.RecordCacheLookup("policies", true) }
	c.policies.Miss = func() { collector.RecordCacheLookup("policies", false) }

	return c
}

// Members returns the project's member listing, cached for the TTL.
func (c *Client) Members(ctx context.Context, project string) ([]Member, error) {
	key := lookupKey{Project: project, Server: c.server, Admin: c.admin}
	return c.members.GetOrCompute(key, func() ([]Member, error) {
		return c.fetchMembers(ctx, project)
	})
}

// Policy returns the project's policy metadata, cached for the TTL. A
// not-found result is an error and therefore never cached: a project still
// being provisioned must be retried promptly, not remembered for two minutes.
func (c *Client) Policy(ctx context.Context, project string) (ProjectPolicy, error) {
	key := lookupKey{Project: project, Server: c.server, Admin: c.admin}
	return c.policies.GetOrCompute(key, func() (ProjectPolicy, error) {
		return c.fetchPolicy(ctx, project)
	})
}

func (c *Client) fetchMembers(ctx context.Context, project string) ([]Member, error) {
	start := time.Now()
	resp, err := c.adminPost(ctx, fmt.Sprintf("%s/projects/%s/members.xml", c.server, url.PathEscape(project)))
	if err != nil {
		c.metrics.RecordMembershipFetch("members", "transport_error", time.Since(start))
		return nil, fmt.Errorf("fetching members for project %s: %w", project, err)
	}

	if err := c.checkStatus(project, resp.status); err != nil {
		c.metrics.RecordMembershipFetch("members", fetchOutcome(err), time.Since(start))
		return nil, err
	}

	members, err := parseMembers(resp.body)
	if err != nil {
		c.metrics.RecordMembershipFetch("members", "parse_error", time.Since(start))
		return nil, fmt.Errorf("parsing members for project %s: %w", project, err)
	}

	c.logger.Debug("Fetched project members", "project", project, "count", len(members))
	c.metrics.RecordMembershipFetch("members", "ok", time.Since(start))
	return members, nil
}

func (c *Client) fetchPolicy(ctx context.Context, project string) (ProjectPolicy, error) {
	start := time.Now()
	resp, err := c.adminPost(ctx, fmt.Sprintf("%s/projects/%s/info.xml", c.server, url.PathEscape(project)))
	if err != nil {
		c.metrics.RecordMembershipFetch("policy", "transport_error", time.Since(start))
		return ProjectPolicy{}, fmt.Errorf("fetching policy for project %s: %w", project, err)
	}

	if err := c.checkStatus(project, resp.status); err != nil {
		c.metrics.RecordMembershipFetch("policy", fetchOutcome(err), time.Since(start))
		return ProjectPolicy{}, err
	}

	policy, err := parsePolicy(resp.body)
	if err != nil {
		c.metrics.RecordMembershipFetch("policy", "parse_error", time.Since(start))
		return ProjectPolicy{}, fmt.Errorf("parsing policy for project %s: %w", project, err)
	}

	c.logger.Debug("Fetched project policy", "project", project, "policy", policy.Policy)
	c.metrics.RecordMembershipFetch("policy", "ok", time.Since(start))
	return policy, nil
}

// adminPost performs one privileged round trip. The remote's auth layer does
// not accept standard HTTP authentication for these endpoints, so the admin
// pair is submitted as form fields over POST.
func (c *Client) adminPost(ctx context.Context, endpoint string) (*remoteResponse, error) {
	return c.breaker.Execute(func() (*remoteResponse, error) {
		form := url.Values{
			"__ac_name":     {c.admin.Name},
			"__ac_password": {c.admin.Password},
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		return &remoteResponse{status: resp.StatusCode, body: body}, nil
	})
}

// checkStatus maps a remote status to the lookup error taxonomy.
func (c *Client) checkStatus(project string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		// The project is not fully initialized yet.
		return fmt.Errorf("project %s: %w", project, ErrProjectNotFound)
	case status >= 300 && status < 400:
		return &RemoteError{Project: project, Status: status, Hint: "did your admin authentication fail?"}
	case status == http.StatusBadRequest:
		return &RemoteError{Project: project, Status: status, Hint: "is the membership backend running?"}
	default:
		return &RemoteError{Project: project, Status: status}
	}
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isNotFound(err):
		return "not_found"
	default:
		return "remote_error"
	}
}
