// internal/filter/filter.go
package filter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cookiegate/internal/auth"
	"cookiegate/internal/httputils"
	"cookiegate/internal/membership"
	"cookiegate/internal/observability/logging"
	"cookiegate/internal/observability/metrics"
	"cookiegate/internal/token"
)

// badCookieMessage is the remediation body for requests carrying a cookie
// that cannot be decoded at all.
const badCookieMessage = "Please delete your browser's cookies and login again."

// insufficientPrivilegesQuery is the pre-encoded denial message appended to
// the homepage redirect.
const insufficientPrivilegesQuery = "portal_status_message=You+have+insufficient+privileges."

// debugPathPrefix marks internal debug paths that bypass the filter entirely.
const debugPathPrefix = "_debug"

// ProjectResolver derives the request's target project context, or "" when
// the request has none.
type ProjectResolver func(r *http.Request) string

// ProjectFromPath resolves the first path segment under /projects/.
func ProjectFromPath(r *http.Request) string {
	rest, ok := strings.CutPrefix(r.URL.Path, "/projects/")
	if !ok {
		return ""
	}
	project, _, _ := strings.Cut(rest, "/")
	return project
}

// ProjectFromHeader resolves the project from a header set by an upstream
// routing layer.
func ProjectFromHeader(name string) ProjectResolver {
	return func(r *http.Request) string {
		return r.Header.Get(name)
	}
}

// Config holds authentication filter configuration
type Config struct {
	// Secret is the cookie signing secret
	Secret []byte

	// LoginURI is where intercepted 401 responses are redirected
	LoginURI string

	// HomepageURI is where intercepted 403 responses are redirected
	HomepageURI string

	// ProfileURI is the member profile URL template with a single %s
	ProfileURI string

	// TrustedUserHeader names a header carrying an externally-asserted
	// username; empty disables header assertion
	TrustedUserHeader string

	// ProjectResolver derives the target project; ProjectFromPath when nil
	ProjectResolver ProjectResolver
}

// Filter authenticates each request from the signed cookie, enriches it with
// project roles and policy from the membership service, and turns the
// wrapped handler's 401/403 responses into login/denial redirects.
type Filter struct {
	next    http.Handler
	source  membership.Source
	config  Config
	resolve ProjectResolver
	logger  *logging.Logger
	metrics *metrics.Collector
}

// New creates an authentication filter wrapping next.
func New(config Config, source membership.Source, next http.Handler, logger *logging.Logger, collector *metrics.Collector) (*Filter, error) {
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("filter: signing secret is required")
	}
	if strings.Count(config.ProfileURI, "%s") != 1 {
		return nil, fmt.Errorf("filter: badly formatted profile URI %q: must include a single %%s", config.ProfileURI)
	}

	resolve := config.ProjectResolver
	if resolve == nil {
		resolve = ProjectFromPath
	}

	return &Filter{
		next:    next,
		source:  source,
		config:  config,
		resolve: resolve,
		logger:  logger.WithModule("filter"),
		metrics: collector,
	}, nil
}

func (f *Filter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Internal debug paths skip the whole pipeline. The identity headers
	// are still dropped: the upstream trusts them, so they must never
	// arrive client-supplied on any path.
	if strings.HasPrefix(strings.Trim(r.URL.Path, "/"), debugPathPrefix) {
		stripForwardedIdentity(r)
		f.next.ServeHTTP(w, r)
		return
	}

	logger := logging.LoggerFromContext(r.Context())
	if logger == nil {
		logger = f.logger
	}

	identity, err := f.identify(r)
	if err != nil {
		// The cookie does not decode at all. Reject before the wrapped
		// handler ever runs; the user has to clear cookies to recover.
		logger.Warn("Rejecting request with malformed auth cookie", "path", r.URL.Path)
		f.metrics.RecordAuthentication("bad_cookie")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, badCookieMessage)
		return
	}

	ctx := auth.ContextWithIdentity(r.Context(), identity)

	if project := f.resolve(r); project != "" {
		ctx, err = f.enrich(ctx, identity, project)
		if err != nil {
			logger.Error("Membership lookup failed", logging.Err(err), "project", project)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	r = r.WithContext(ctx)
	f.forwardIdentity(r, identity)

	interceptor := httputils.NewInterceptor(w, needsRedirection)
	f.next.ServeHTTP(interceptor, r)

	if !interceptor.Intercepted() {
		return
	}

	switch interceptor.Status() {
	case http.StatusUnauthorized:
		location := f.config.LoginURI + "?came_from=" + url.QueryEscape(requestURL(r))
		logger.Debug("Redirecting unauthenticated request to login", "location", location)
		f.metrics.RecordRedirect("login")
		w.Header().Set("Location", location)
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusSeeOther)

	case http.StatusForbidden:
		location := f.config.HomepageURI + "?" + insufficientPrivilegesQuery
		logger.Debug("Redirecting unprivileged request to homepage", "username", identity.Username)
		f.metrics.RecordRedirect("insufficient_privileges")
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusSeeOther)
	}
}

// identify establishes the request's identity. It returns an error only for
// a malformed cookie; a cookie with a bad signature degrades silently to the
// anonymous identity.
func (f *Filter) identify(r *http.Request) (*auth.Identity, error) {
	if f.config.TrustedUserHeader != "" {
		if username := r.Header.Get(f.config.TrustedUserHeader); username != "" {
			f.metrics.RecordAuthentication("asserted")
			return auth.Authenticated(username), nil
		}
	}

	cookie, err := r.Cookie(token.CookieName)
	if err != nil {
		f.metrics.RecordAuthentication("anonymous")
		return auth.Anonymous(), nil
	}

	username, signature, err := token.Decode(cookie.Value)
	if err != nil {
		return nil, err
	}

	if !token.Verify(f.config.Secret, username, signature) {
		// Forged or stale, not fatal.
		f.metrics.RecordAuthentication("bad_signature")
		return auth.Anonymous(), nil
	}

	f.metrics.RecordAuthentication("authenticated")
	return auth.Authenticated(username), nil
}

// enrich adds the identity's project roles and the project policy to the
// context. A not-found project means empty membership and the closed policy;
// any other lookup failure is fatal to the request.
func (f *Filter) enrich(ctx context.Context, identity *auth.Identity, project string) (context.Context, error) {
	members, err := f.source.Members(ctx, project)
	switch {
	case errors.Is(err, membership.ErrProjectNotFound):
		members = nil
	case err != nil:
		return ctx, err
	}

	view := membership.View{Members: members, ProfileURL: f.config.ProfileURI}
	var projectRoles []string
	if view.IsMember(identity.Username) {
		projectRoles = view.RolesFor(identity.Username)
		identity.AddRoles(projectRoles...)
	}

	policy, err := f.source.Policy(ctx, project)
	switch {
	case errors.Is(err, membership.ErrProjectNotFound):
		policy = membership.ProjectPolicy{Policy: membership.ClosedPolicy}
	case err != nil:
		return ctx, err
	}

	ctx = auth.ContextWithProjectRoles(ctx, projectRoles)
	ctx = auth.ContextWithProjectPolicy(ctx, policy.Policy)
	return ctx, nil
}

// forwardIdentity exposes the resolved identity to the out-of-process
// upstream. Inbound copies of these headers are always dropped first so the
// client cannot assert an identity itself.
func (f *Filter) forwardIdentity(r *http.Request, identity *auth.Identity) {
	stripForwardedIdentity(r)

	if identity.Username != "" {
		r.Header.Set("X-Forwarded-User", identity.Username)
	}
	r.Header.Set("X-Forwarded-Roles", strings.Join(identity.Roles, " "))
	if policy := auth.ProjectPolicyFromContext(r.Context()); policy != "" {
		r.Header.Set("X-Project-Policy", policy)
	}
}

// stripForwardedIdentity drops any inbound copies of the identity headers so
// the client cannot assert an identity itself.
func stripForwardedIdentity(r *http.Request) {
	r.Header.Del("X-Forwarded-User")
	r.Header.Del("X-Forwarded-Roles")
	r.Header.Del("X-Project-Policy")
}

// needsRedirection decides which wrapped-handler statuses are held back for
// replacement.
func needsRedirection(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// requestURL reconstructs the full URL the client requested, honoring a
// forwarded protocol from an upstream terminator.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
