package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"expertise-marketplace/internal/domain/expert"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed experts.yaml
var defaultExperts []byte

var ErrInvalidSeed = errors.New("invalid seed record")

// Defaults returns the built-in demo experts.
func Defaults() ([]expert.Expert, error) {
	return Load(bytes.NewReader(defaultExperts))
}

// Load decodes a YAML list of experts and validates every record. Ids must be
// present and unique within the file.
func Load(r io.Reader) ([]expert.Expert, error) {
	var experts []expert.Expert
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&experts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := Validate(experts); err != nil {
		return nil, err
	}
	return experts, nil
}

func Validate(experts []expert.Expert) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]struct{}, len(experts))

	var errs []error
	for i, e := range experts {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%w: record %d: missing id", ErrInvalidSeed, i))
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%w: record %d: duplicate id %q", ErrInvalidSeed, i, id))
			continue
		}
		seen[id] = struct{}{}

		if err := v.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("%w: record %d (%s): %w", ErrInvalidSeed, i, id, err))
		}
	}
	return errors.Join(errs...)
}
