// Package keystore loads the PKCS#12 client identity used for mTLS and
// message signing.
//
// A platform identity keystore is expected to hold exactly one entry: the
// client certificate together with its RSA private key. Stores with no key
// entry (pure trust stores) and stores whose key is not RSA are rejected
// with distinct errors so callers can tell a misconfigured store from a
// corrupt one.
package keystore

import (
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

var (
	// ErrKeyNotFound is returned when the keystore contains no private key entry.
	ErrKeyNotFound = errors.New("keystore contains no private key entry")
	// ErrWrongKeyType is returned when the stored key is not an RSA private key.
	ErrWrongKeyType = errors.New("keystore entry is not an RSA private key")
)

// Identity is the keypair and certificate extracted from a keystore.
type Identity struct {
	PrivateKey  *rsa.PrivateKey
	Certificate *x509.Certificate
	CACerts     []*x509.Certificate
}

// Load reads and decrypts the PKCS#12 keystore at path.
func Load(path, password string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	return Decode(data, password)
}

// Decode decrypts raw PKCS#12 data into an Identity.
func Decode(data []byte, password string) (*Identity, error) {
	key, cert, cas, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		// A store that decodes as a trust store has certificates but no
		// key entry at all.
		if _, tsErr := pkcs12.DecodeTrustStore(data, password); tsErr == nil {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("decode keystore: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongKeyType, key)
	}

	return &Identity{PrivateKey: rsaKey, Certificate: cert, CACerts: cas}, nil
}

// TLSCertificate returns the identity as a client certificate for a
// tls.Config.
func (id *Identity) TLSCertificate() tls.Certificate {
	chain := [][]byte{id.Certificate.Raw}
	for _, ca := range id.CACerts {
		chain = append(chain, ca.Raw)
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  id.PrivateKey,
		Leaf:        id.Certificate,
	}
}
