package subscription

import (
	"context"
	"errors"
)

// ErrTariffNotFound is returned by repositories when no matching tariff exists.
var ErrTariffNotFound = errors.New("tariff not found")

// Tariff is the plan a subscription is sold under. The core only needs its
// display name, which notification templates reference as {{tariff_name}}.
type Tariff struct {
	id   uint
	name string
}

func ReconstructTariff(id uint, name string) (*Tariff, error) {
	if id == 0 {
		return nil, errors.New("tariff ID cannot be zero")
	}
	if name == "" {
		return nil, errors.New("tariff name cannot be empty")
	}
	return &Tariff{id: id, name: name}, nil
}

func (t *Tariff) ID() uint     { return t.id }
func (t *Tariff) Name() string { return t.name }

// TariffRepository resolves tariff display data.
type TariffRepository interface {
	GetByID(ctx context.Context, id uint) (*Tariff, error)
}
