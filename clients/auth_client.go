package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// AuthAPI is the slice of the auth backend the storefront uses.
type AuthAPI interface {
	CheckEmail(ctx context.Context, email string) (*models.EmailLookup, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	SocialExchange(ctx context.Context, provider, code, redirectURI string) (*models.AuthResult, error)
	SetRole(ctx context.Context, accessToken, role string) (*models.User, error)
	CreateSellerProfile(ctx context.Context, accessToken string, profile models.SellerProfile) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, accessToken string) (*models.User, error)
}

type AuthClient struct {
	gateway *GatewayClient
}

func NewAuthClient(gateway *GatewayClient) *AuthClient {
	return &AuthClient{gateway: gateway}
}

func bearer(token string) http.Header {
	return Caller{AccessToken: token}.Headers()
}

// CheckEmail asks whether an account exists and how it signs in. A 404 is
// treated as "no such account".
func (a *AuthClient) CheckEmail(ctx context.Context, email string) (*models.EmailLookup, error) {
	var out models.EmailLookup
	err := a.gateway.DoJSON(ctx, http.MethodPost, "/auth/check-email", nil, nil, map[string]string{"email": email}, &out)
	if IsStatus(err, http.StatusNotFound) {
		return &models.EmailLookup{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	in := map[string]string{"email": email, "password": password}
	if err := a.gateway.DoJSON(ctx, http.MethodPost, "/auth/login", nil, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := a.gateway.DoJSON(ctx, http.MethodPost, "/auth/register", nil, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SocialExchange trades an identity provider authorization code for a
// storefront session.
func (a *AuthClient) SocialExchange(ctx context.Context, provider, code, redirectURI string) (*models.AuthResult, error) {
	var out models.AuthResult
	in := map[string]string{"code": code, "redirect_uri": redirectURI}
	path := "/auth/social/" + url.PathEscape(provider) + "/exchange"
	if err := a.gateway.DoJSON(ctx, http.MethodPost, path, nil, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) SetRole(ctx context.Context, accessToken, role string) (*models.User, error) {
	var out models.User
	if err := a.gateway.DoJSON(ctx, http.MethodPut, "/users/role", nil, bearer(accessToken), map[string]string{"role": role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) CreateSellerProfile(ctx context.Context, accessToken string, profile models.SellerProfile) error {
	return a.gateway.DoJSON(ctx, http.MethodPost, "/sellers/profile", nil, bearer(accessToken), profile, nil)
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var out models.TokenPair
	if err := a.gateway.DoJSON(ctx, http.MethodPost, "/auth/refresh", nil, nil, map[string]string{"refresh_token": refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	return a.gateway.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, map[string]string{"refresh_token": refreshToken}, nil)
}

func (a *AuthClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var out models.User
	if err := a.gateway.DoJSON(ctx, http.MethodGet, "/auth/me", nil, bearer(accessToken), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
