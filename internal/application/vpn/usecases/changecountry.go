package usecases

import (
	"context"
	"strings"
	"time"

	"noryx/internal/application/vpn/dto"
	"noryx/internal/domain/subscription"
	"noryx/internal/domain/vpn"
	"noryx/internal/shared/errors"
	"noryx/internal/shared/logger"
)

// CountryAuto lets the panel pick the exit country.
const CountryAuto = "auto"

type ChangeCountryUseCase struct {
	subs      subscription.Repository
	countries vpn.CountryRepository
	logger    logger.Interface
}

func NewChangeCountryUseCase(subs subscription.Repository, countries vpn.CountryRepository, log logger.Interface) *ChangeCountryUseCase {
	return &ChangeCountryUseCase{
		subs:      subs,
		countries: countries,
		logger:    log,
	}
}

func (uc *ChangeCountryUseCase) Execute(ctx context.Context, userID uint, countryCode string) (*dto.CountryResponse, error) {
	sub, err := uc.subs.FindUsableByUserID(ctx, userID, time.Now().UTC())
	if err != nil {
		if err == subscription.ErrNotFound {
			return nil, errors.NewNotFoundError("no active subscription")
		}
		return nil, err
	}

	selected, err := resolveCountry(ctx, uc.countries, countryCode)
	if err != nil {
		return nil, err
	}

	if err := sub.ChangeCountry(selected.Code); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.subs.UpdateCountry(ctx, sub.ID(), selected.Code); err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription country changed", "user_id", userID, "country", selected.Code)
	return selected, nil
}

// resolveCountry normalizes a requested country code and validates it against
// the available set. Auto always resolves without a lookup.
func resolveCountry(ctx context.Context, countries vpn.CountryRepository, countryCode string) (*dto.CountryResponse, error) {
	code := strings.ToLower(strings.TrimSpace(countryCode))
	if code == "" {
		return nil, errors.NewValidationError("country code is required")
	}
	if code == CountryAuto {
		return &dto.CountryResponse{Code: CountryAuto, Name: "Automatic"}, nil
	}

	available, err := countries.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	for _, country := range available {
		if strings.EqualFold(country.Code, code) {
			return &dto.CountryResponse{Code: country.Code, Name: country.Name, FlagEmoji: country.FlagEmoji}, nil
		}
	}
	return nil, errors.NewValidationError("country is not available", "code="+code)
}

type ListCountriesUseCase struct {
	countries vpn.CountryRepository
}

func NewListCountriesUseCase(countries vpn.CountryRepository) *ListCountriesUseCase {
	return &ListCountriesUseCase{countries: countries}
}

// Execute returns selectable countries with the automatic choice first.
func (uc *ListCountriesUseCase) Execute(ctx context.Context) ([]*dto.CountryResponse, error) {
	available, err := uc.countries.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CountryResponse, 0, len(available)+1)
	result = append(result, &dto.CountryResponse{Code: CountryAuto, Name: "Automatic"})
	for _, country := range available {
		result = append(result, &dto.CountryResponse{
			Code:      country.Code,
			Name:      country.Name,
			FlagEmoji: country.FlagEmoji,
		})
	}
	return result, nil
}
