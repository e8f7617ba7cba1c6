package main

import (
	"Authormity/internal/conf"
	"Authormity/pkg/crypto"
	"Authormity/pkg/linkedin"
	"Authormity/pkg/netutil"
	"Authormity/pkg/openrouter"
)

// newTokenCipher builds the credential cipher from the configured hex key.
func newTokenCipher(auth *conf.Auth) (*crypto.TokenCipher, error) {
	var key string
	if auth != nil && auth.Encryption != nil {
		key = auth.Encryption.Key
	}
	return crypto.NewTokenCipher(key)
}

func newLinkedInClient(c *conf.LinkedIn) (*linkedin.Client, error) {
	httpClient, err := netutil.NewHTTPClient(c.ProxyURL, c.Timeout)
	if err != nil {
		return nil, err
	}
	return linkedin.NewClient(linkedin.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		HTTPClient:   httpClient,
	}), nil
}

// newOpenRouterClient 以 AppURL 作为 HTTP-Referer
func newOpenRouterClient(c *conf.LLM, s *conf.Server) (*openrouter.Client, error) {
	httpClient, err := netutil.NewHTTPClient(c.ProxyURL, c.Timeout)
	if err != nil {
		return nil, err
	}
	return openrouter.NewClient(openrouter.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Model:        c.Model,
		Referer:      s.AppURL,
		RetryBackoff: c.RetryBackoff,
		HTTPClient:   httpClient,
	}), nil
}
