// Package catalog loads purchasable service options from YAML seed files.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
	"gopkg.in/yaml.v3"
)

var fieldTypes = map[string]bool{"text": true, "number": true, "date": true, "email": true, "file": true, "select": true, "textarea": true}

// Parse decodes and checks a seed file. Options default to active unless
// is_active is given.
func Parse(r io.Reader) ([]models.Option, error) {
	var raw struct {
		Options []yaml.Node `yaml:"options"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	options := make([]models.Option, 0, len(raw.Options))
	seen := make(map[string]bool, len(raw.Options))
	var errs []error
	for i, node := range raw.Options {
		opt := models.Option{IsActive: true}
		if err := node.Decode(&opt); err != nil {
			errs = append(errs, fmt.Errorf("option %d: %w", i, err))
			continue
		}
		if err := check(&opt); err != nil {
			errs = append(errs, fmt.Errorf("option %d (%s): %w", i, opt.OptionId, err))
			continue
		}
		if seen[opt.OptionId] {
			errs = append(errs, fmt.Errorf("option %d: duplicate option_id %q", i, opt.OptionId))
			continue
		}
		seen[opt.OptionId] = true
		options = append(options, opt)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return options, nil
}

func check(opt *models.Option) error {
	switch {
	case opt.OptionId == "":
		return errors.New("option_id is required")
	case opt.ServiceId == "":
		return errors.New("service_id is required")
	case opt.Name == "":
		return errors.New("name is required")
	case opt.Price < 0:
		return errors.New("price must not be negative")
	}

	names := make(map[string]bool, len(opt.FormFields))
	for _, f := range opt.FormFields {
		if f.Name == "" {
			return errors.New("form field without name")
		}
		if names[f.Name] {
			return fmt.Errorf("duplicate form field %q", f.Name)
		}
		names[f.Name] = true
		if !fieldTypes[f.Type] {
			return fmt.Errorf("form field %q has unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}

// Seed writes every option, replacing existing ones with the same ID.
func Seed(ctx context.Context, store storage.CatalogStore, options []models.Option) error {
	for i := range options {
		if err := store.PutOption(ctx, &options[i]); err != nil {
			return fmt.Errorf("failed to store option %s: %w", options[i].OptionId, err)
		}
	}
	return nil
}
