package exchange

import (
	"errors"
	"fmt"

	"github.com/platformoftrust/exchange-go/internal/keystore"
)

var (
	// ErrKeyNotFound is returned when the configured keystore holds no
	// private key entry.
	ErrKeyNotFound = keystore.ErrKeyNotFound
	// ErrWrongKeyType is returned when the keystore entry is not an RSA
	// private key.
	ErrWrongKeyType = keystore.ErrWrongKeyType

	// ErrAlreadyCreated is returned by Create when the local object already
	// has a resource UUID. The call performs no I/O; clearing the remote
	// resource first (or using a fresh object) is required.
	ErrAlreadyCreated = errors.New("resource already created")
	// ErrNotCreated is returned by operations that require the object to
	// exist on the platform while its resource UUID is still empty.
	ErrNotCreated = errors.New("resource not created yet")

	// ErrNoJSONBody is returned when a response body is decoded but the
	// platform did not return JSON.
	ErrNoJSONBody = errors.New("response has no JSON body")

	// ErrNotAuthenticated is returned when a call is attempted before
	// Authenticate has stored an access token.
	ErrNotAuthenticated = errors.New("session has no access token, call Authenticate first")
)

// ValidationError reports a caller mistake detected before any network
// call. The object under validation is left unmodified.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ProtocolError reports a non-2xx platform response. The raw status and
// body are carried so callers can inspect what the platform said; local
// entity state is never modified when a ProtocolError is returned.
type ProtocolError struct {
	StatusCode int
	Body       []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("platform returned HTTP %d: %s", e.StatusCode, string(e.Body))
}

// IsProtocolError reports whether err carries a non-2xx platform response
// and returns it when so.
func IsProtocolError(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
