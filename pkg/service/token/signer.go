package token

import (
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
)

// AssertionSigner turns assertion claims into a signed compact JWT. The
// exchange logic only depends on this interface, so it can be tested with a
// throwaway key or a stub.
type AssertionSigner interface {
	Sign(claims jwt.Token) ([]byte, error)
}

type rs256Signer struct {
	key jwk.Key
}

var _ AssertionSigner = (*rs256Signer)(nil)

// NewRS256Signer parses a PEM-encoded RSA private key and signs assertions
// with RS256, the algorithm Google's token endpoint expects.
func NewRS256Signer(pemKey []byte) (AssertionSigner, error) {
	key, err := jwk.ParseKey(pemKey, jwk.WithPEM(true))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse service account private key", goerr.T(errs.TagAuthConfig))
	}
	return &rs256Signer{key: key}, nil
}

func (x *rs256Signer) Sign(claims jwt.Token) ([]byte, error) {
	signed, err := jwt.Sign(claims, jwt.WithKey(jwa.RS256, x.key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign assertion")
	}
	return signed, nil
}
