package clients

import (
	"fmt"
	"net/url"
	"strings"
)

// IdentityProvider is an external social sign-in provider. The storefront
// only builds the authorize redirect; the code exchange is done by the auth
// backend.
type IdentityProvider struct {
	Name         string
	AuthorizeURL string
	ClientID     string
	Scopes       []string
}

// IdentityClient knows the configured providers and the callback URL.
type IdentityClient struct {
	providers   map[string]IdentityProvider
	redirectURL string
}

func NewIdentityClient(redirectURL string, providers ...IdentityProvider) *IdentityClient {
	m := make(map[string]IdentityProvider, len(providers))
	for _, p := range providers {
		m[strings.ToLower(p.Name)] = p
	}
	return &IdentityClient{providers: m, redirectURL: redirectURL}
}

func (c *IdentityClient) Supports(provider string) bool {
	_, ok := c.providers[strings.ToLower(provider)]
	return ok
}

func (c *IdentityClient) RedirectURL() string {
	return c.redirectURL
}

// AuthorizeURL builds the provider redirect carrying state and a login hint.
func (c *IdentityClient) AuthorizeURL(provider, state, loginHint string) (string, error) {
	p, ok := c.providers[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("unsupported identity provider %q", provider)
	}

	u, err := url.Parse(p.AuthorizeURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorize url for %s: %w", p.Name, err)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", c.redirectURL)
	q.Set("state", state)
	if len(p.Scopes) > 0 {
		q.Set("scope", strings.Join(p.Scopes, " "))
	}
	if loginHint != "" {
		q.Set("login_hint", loginHint)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
