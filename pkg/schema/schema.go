package schema

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/sr"
)

// SchemaIdentifier resolves the registry id of a schema text under subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, schemaText string) (int, error)
}

var _ SchemaIdentifier = (*RegistryIdentifier)(nil)

// RegistryIdentifier registers schemas in a Confluent compatible registry.
// Registering an already known schema returns its existing id.
type RegistryIdentifier struct {
	cl *sr.Client
}

func NewRegistryIdentifier(urls []string, tlsCfg *tls.Config) (*RegistryIdentifier, error) {
	const op = "NewRegistryIdentifier"

	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errors.New("no registry urls"))
	}

	opts := []sr.ClientOpt{sr.URLs(urls...)}
	if tlsCfg != nil {
		opts = append(opts, sr.DialTLSConfig(tlsCfg))
	}

	cl, err := sr.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RegistryIdentifier{cl: cl}, nil
}

func (ri *RegistryIdentifier) DetermineID(
	ctx context.Context, subject string, schemaText string,
) (int, error) {
	const op = "RegistryIdentifier.DetermineID"

	ss, err := ri.cl.CreateSchema(ctx, subject, sr.Schema{
		Schema: schemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
