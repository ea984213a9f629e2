// Package registryauth resolves registry credentials for presets stored as
// OCI artifacts.
package registryauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/rs/zerolog/log"
)

// ErrNoCredentials means the provider has nothing for the registry; the
// caller falls back to anonymous access.
var ErrNoCredentials = errors.New("no credentials available")

type Provider interface {
	// GetCredentials returns credentials for registry (e.g. "ghcr.io").
	// scope is the repository path and may be empty.
	GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error)
	Name() string
}

// PublicOnlyProvider always returns ErrNoCredentials
type PublicOnlyProvider struct{}

func NewPublicOnlyProvider() *PublicOnlyProvider {
	return &PublicOnlyProvider{}
}

func (p *PublicOnlyProvider) GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error) {
	return nil, ErrNoCredentials
}

func (p *PublicOnlyProvider) Name() string {
	return "public-only"
}

// StaticProvider returns fixed credentials per registry. Keys may contain *
// wildcards, e.g. "*.example.com".
type StaticProvider struct {
	credentials map[string]*authn.AuthConfig
}

func NewStaticProvider(credentials map[string]*authn.AuthConfig) *StaticProvider {
	return &StaticProvider{credentials: credentials}
}

func (p *StaticProvider) GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error) {
	if creds, ok := p.credentials[registry]; ok {
		return creds, nil
	}

	for pattern, creds := range p.credentials {
		if matchRegistryPattern(pattern, registry) {
			log.Debug().
				Str("registry", registry).
				Str("pattern", pattern).
				Msg("found credentials in static provider (pattern match)")
			return creds, nil
		}
	}

	return nil, ErrNoCredentials
}

func (p *StaticProvider) Name() string {
	return "static"
}

func matchRegistryPattern(pattern, registry string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return pattern == registry
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(registry, parts[0]) || !strings.HasSuffix(registry, parts[len(parts)-1]) {
		return false
	}

	pos := len(parts[0])
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(registry[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}

	return len(registry)-pos >= len(parts[len(parts)-1])
}

// EnvProvider reads credentials from the environment:
//   - H5E_REGISTRY_USER_<HOST> / H5E_REGISTRY_PASS_<HOST>
//   - H5E_OCI_AUTH, a JSON object keyed by registry host
type EnvProvider struct{}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error) {
	normalizedRegistry := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_", ":", "_").Replace(registry))

	userKey := fmt.Sprintf("H5E_REGISTRY_USER_%s", normalizedRegistry)
	passKey := fmt.Sprintf("H5E_REGISTRY_PASS_%s", normalizedRegistry)

	if user := os.Getenv(userKey); user != "" {
		log.Debug().
			Str("registry", registry).
			Str("user_key", userKey).
			Msg("found credentials in environment variables")
		return &authn.AuthConfig{
			Username: user,
			Password: os.Getenv(passKey),
		}, nil
	}

	authJSON := os.Getenv("H5E_OCI_AUTH")
	if authJSON == "" {
		return nil, ErrNoCredentials
	}

	credentials, err := ParseOCIAuth(authJSON)
	if err != nil {
		return nil, err
	}

	return NewStaticProvider(credentials).GetCredentials(ctx, registry, scope)
}

// ParseOCIAuth decodes an H5E_OCI_AUTH document into per-registry credentials.
// Keys are registry hosts and may use * wildcards. A token takes precedence
// over username/password.
func ParseOCIAuth(authJSON string) (map[string]*authn.AuthConfig, error) {
	var authMap map[string]struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal([]byte(authJSON), &authMap); err != nil {
		return nil, fmt.Errorf("invalid H5E_OCI_AUTH: %w", err)
	}

	credentials := make(map[string]*authn.AuthConfig, len(authMap))
	for registry, auth := range authMap {
		if auth.Token != "" {
			credentials[registry] = &authn.AuthConfig{
				Username: "oauth2accesstoken",
				Password: auth.Token,
			}
			continue
		}
		credentials[registry] = &authn.AuthConfig{
			Username: auth.Username,
			Password: auth.Password,
		}
	}

	return credentials, nil
}

func (p *EnvProvider) Name() string {
	return "env"
}

// KeychainProvider wraps a go-containerregistry keychain (Docker config and
// credential helpers by default).
type KeychainProvider struct {
	keychain authn.Keychain
}

func NewKeychainProvider() *KeychainProvider {
	return &KeychainProvider{keychain: authn.DefaultKeychain}
}

func (p *KeychainProvider) GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error) {
	reg, err := name.NewRegistry(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	auth, err := p.keychain.Resolve(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve auth: %w", err)
	}

	authConfig, err := auth.Authorization()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization: %w", err)
	}

	if authConfig == nil || (authConfig.Username == "" && authConfig.RegistryToken == "" && authConfig.IdentityToken == "") {
		return nil, ErrNoCredentials
	}

	return authConfig, nil
}

func (p *KeychainProvider) Name() string {
	return "keychain"
}

// ChainedProvider tries each provider in order and returns the first credentials found.
type ChainedProvider struct {
	providers []Provider
}

func NewChainedProvider(providers ...Provider) *ChainedProvider {
	return &ChainedProvider{providers: providers}
}

func (p *ChainedProvider) GetCredentials(ctx context.Context, registry string, scope string) (*authn.AuthConfig, error) {
	for _, provider := range p.providers {
		creds, err := provider.GetCredentials(ctx, registry, scope)
		if err == nil && creds != nil {
			log.Debug().
				Str("registry", registry).
				Str("provider", provider.Name()).
				Msg("credentials found in chained provider")
			return creds, nil
		}
		if err != nil && !errors.Is(err, ErrNoCredentials) {
			log.Debug().
				Err(err).
				Str("registry", registry).
				Str("provider", provider.Name()).
				Msg("provider returned error, trying next")
		}
	}
	return nil, ErrNoCredentials
}

func (p *ChainedProvider) Name() string {
	names := make([]string, len(p.providers))
	for i, provider := range p.providers {
		names[i] = provider.Name()
	}
	return fmt.Sprintf("chain[%s]", strings.Join(names, ","))
}

func DefaultProvider() Provider {
	return NewChainedProvider(
		NewEnvProvider(),
		NewKeychainProvider(),
	)
}

// Keychain adapts a Provider to authn.Keychain. Registries without
// credentials resolve to anonymous access.
type Keychain struct {
	provider Provider
}

func NewKeychain(provider Provider) *Keychain {
	return &Keychain{provider: provider}
}

func (k *Keychain) Resolve(target authn.Resource) (authn.Authenticator, error) {
	scope := ""
	if repo, ok := target.(name.Repository); ok {
		scope = repo.RepositoryStr()
	}

	creds, err := k.provider.GetCredentials(context.Background(), target.RegistryStr(), scope)
	if errors.Is(err, ErrNoCredentials) {
		return authn.Anonymous, nil
	}
	if err != nil {
		return nil, err
	}

	return authn.FromConfig(*creds), nil
}
