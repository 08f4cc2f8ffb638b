package token

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/clock"
)

const (
	// Lifetime of a minted access token. Google issues tokens for one hour;
	// the assertion asks for exactly that.
	tokenLifetime = 3600 * time.Second

	defaultTokenURI = "https://oauth2.googleapis.com/token"
	defaultScope    = "https://www.googleapis.com/auth/datastore"

	grantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// AccessToken is a short-lived bearer credential.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ServiceAccount is the key material of a Google service account, as found
// in its JSON key file.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// ParseServiceAccount decodes a service account JSON key. Key material
// stored with escaped newlines (e.g. via environment variables) is unescaped
// to literal newlines.
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, goerr.Wrap(err, "failed to parse service account key", goerr.T(errs.TagAuthConfig))
	}
	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	return &sa, nil
}

func (x *ServiceAccount) Validate() error {
	if x.ClientEmail == "" {
		return goerr.New("service account client_email is required", goerr.T(errs.TagAuthConfig))
	}
	if x.PrivateKey == "" {
		return goerr.New("service account private_key is required", goerr.T(errs.TagAuthConfig))
	}
	return nil
}

// HTTPClient is the transport used for the token exchange.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Minter exchanges a signed bearer assertion for an access token.
type Minter struct {
	account    *ServiceAccount
	signer     AssertionSigner
	httpClient HTTPClient
	scope      string
}

type Option func(*Minter)

func WithHTTPClient(client HTTPClient) Option {
	return func(m *Minter) { m.httpClient = client }
}

func WithScope(scope string) Option {
	return func(m *Minter) { m.scope = scope }
}

func WithSigner(signer AssertionSigner) Option {
	return func(m *Minter) { m.signer = signer }
}

func New(account *ServiceAccount, opts ...Option) (*Minter, error) {
	if account == nil {
		return nil, goerr.New("service account is required", goerr.T(errs.TagAuthConfig))
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	m := &Minter{
		account:    account,
		httpClient: http.DefaultClient,
		scope:      defaultScope,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.signer == nil {
		signer, err := NewRS256Signer([]byte(account.PrivateKey))
		if err != nil {
			return nil, err
		}
		m.signer = signer
	}
	return m, nil
}

func (x *Minter) tokenURI() string {
	if x.account.TokenURI != "" {
		return x.account.TokenURI
	}
	return defaultTokenURI
}

// Mint builds the signed assertion and exchanges it for an access token.
func (x *Minter) Mint(ctx context.Context) (*AccessToken, error) {
	now := clock.Now(ctx)

	claims, err := jwt.NewBuilder().
		Issuer(x.account.ClientEmail).
		Audience([]string{x.tokenURI()}).
		IssuedAt(now).
		Expiration(now.Add(tokenLifetime)).
		Claim("scope", x.scope).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build assertion claims", goerr.T(errs.TagAuthConfig))
	}

	assertion, err := x.signer.Sign(claims)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign assertion", goerr.T(errs.TagAuthConfig))
	}

	form := url.Values{}
	form.Set("grant_type", grantTypeJWTBearer)
	form.Set("assertion", string(assertion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.tokenURI(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create token request", goerr.T(errs.TagAuthExchange))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "token exchange request failed", goerr.T(errs.TagAuthExchange))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read token response", goerr.T(errs.TagAuthExchange))
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	// Ignore the decode error: a non-JSON body still ends up in the
	// missing-token error below with the raw payload attached.
	_ = json.Unmarshal(body, &parsed)

	if parsed.AccessToken == "" {
		return nil, goerr.New("token exchange returned no access token",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
			goerr.T(errs.TagAuthExchange))
	}

	return &AccessToken{
		Value:     parsed.AccessToken,
		ExpiresAt: now.Add(tokenLifetime),
	}, nil
}
