package exchange

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/platformoftrust/exchange-go/internal/keystore"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// SessionConfig carries everything needed to open a session against the
// platform. All fields are required.
type SessionConfig struct {
	// BaseURL is the API endpoint, e.g. https://api.example.com.
	BaseURL string
	// AuthURL is the authorization server, e.g. https://auth.example.com.
	AuthURL string
	// ClientID and ClientSecret identify the client to the auth server.
	ClientID     string
	ClientSecret string
	// KeyStorePath points at the PKCS#12 store holding the client
	// certificate and its RSA key.
	KeyStorePath     string
	KeyStorePassword string
}

// Session is the live connection state shared by reference across all
// entity handles. Create exactly one per process; never copy it.
type Session struct {
	cfg      SessionConfig
	identity *keystore.Identity
	http     *http.Client
	logger   *zap.Logger
	limiter  *rate.Limiter

	appName    string
	appVersion string

	// token state, guarded by mu. Refresh is caller-triggered via
	// Authenticate; the session never inspects expiry on its own.
	mu    sync.Mutex
	token *oauth2.Token
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithLogger attaches a zap logger. The default is a nop logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) error {
		s.logger = logger
		return nil
	}
}

// WithHTTPClient overrides the mTLS http.Client built from the keystore.
// Mainly useful in tests against plain-HTTP stub servers.
func WithHTTPClient(hc *http.Client) SessionOption {
	return func(s *Session) error {
		s.http = hc
		return nil
	}
}

// WithRateLimit caps outgoing API calls at rps requests per second.
func WithRateLimit(rps float64) SessionOption {
	return func(s *Session) error {
		if rps <= 0 {
			return &ValidationError{Field: "rps", Value: fmt.Sprintf("%g", rps), Reason: "must be positive"}
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		return nil
	}
}

// WithApplication sets the sending application name and version reported
// in record miscellaneous metadata.
func WithApplication(name, version string) SessionOption {
	return func(s *Session) error {
		s.appName = name
		s.appVersion = version
		return nil
	}
}

// NewSession loads the keystore, builds the client-certificate HTTPS
// client and returns the session. A keystore that cannot be loaded, a
// store with no key entry (ErrKeyNotFound) or a non-RSA key
// (ErrWrongKeyType) all fail here, before any network use.
func NewSession(cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	for field, v := range map[string]string{
		"BaseURL":      cfg.BaseURL,
		"AuthURL":      cfg.AuthURL,
		"ClientID":     cfg.ClientID,
		"ClientSecret": cfg.ClientSecret,
		"KeyStorePath": cfg.KeyStorePath,
	} {
		if v == "" {
			return nil, &ValidationError{Field: field, Value: "", Reason: "required"}
		}
	}

	id, err := keystore.Load(cfg.KeyStorePath, cfg.KeyStorePassword)
	if err != nil {
		return nil, fmt.Errorf("load keystore %s: %w", cfg.KeyStorePath, err)
	}

	s := &Session{
		cfg:      cfg,
		identity: id,
		logger:   zap.NewNop(),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{id.TLSCertificate()},
					MinVersion:   tls.VersionTLS12,
				},
			},
		},
	}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Authenticate performs the OAuth2 password grant over the
// client-certificate TLS channel and stores the returned access token.
// Concurrent refreshes are serialized; the last successful token wins as
// one consistent value.
func (s *Session) Authenticate(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"scope":         {"openid profile"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.AuthURL+pathToken, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set(headerContent, "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &ProtocolError{StatusCode: resp.StatusCode, Body: body}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("token response contains no access_token")
	}

	token := &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
	}
	if payload.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Debug("access token refreshed")
	return nil
}

// accessToken returns the current bearer token.
func (s *Session) accessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil || s.token.AccessToken == "" {
		return "", ErrNotAuthenticated
	}
	return s.token.AccessToken, nil
}

// Token returns a copy of the current access token, or nil when the
// session has not authenticated yet.
func (s *Session) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// Sub returns the subject claim of the current access token, without
// verifying the token signature (the platform verified it when issuing).
// Empty when the session has not authenticated.
func (s *Session) Sub() string {
	tok, err := s.accessToken()
	if err != nil {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// PrivateKey returns the RSA private key of the client identity.
func (s *Session) PrivateKey() *rsa.PrivateKey {
	return s.identity.PrivateKey
}

// PublicKey returns the RSA public key of the client identity.
func (s *Session) PublicKey() *rsa.PublicKey {
	return &s.identity.PrivateKey.PublicKey
}

// PublicKeyPEM returns the identity's public key as an SPKI PEM block,
// the format expected when registering a PublicKey on the platform.
func (s *Session) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(s.PublicKey())
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	var b strings.Builder
	if err := pem.Encode(&b, &pem.Block{Type: "PUBLIC KEY", Bytes: der}); err != nil {
		return "", fmt.Errorf("encode public key: %w", err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
