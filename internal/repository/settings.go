package repository

import (
	"context"
	"errors"

	"sigmat/internal/cache"
	"sigmat/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository manages the singleton application settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, update *models.AppSettingsUpdate) (*models.AppSettings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository returns a new SettingsRepository implementation.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings row, creating it with defaults on first access.
func (r *settingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := cache.Aside(ctx, cache.SettingsKey, &settings, cache.SettingsTTL, func() error {
		if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				defaults := models.DefaultSettings()
				if createErr := r.db.WithContext(ctx).Create(defaults).Error; createErr != nil {
					return translateStoreError(createErr)
				}
				settings = *defaults
				return nil
			}
			return translateStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, update *models.AppSettingsUpdate) (*models.AppSettings, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.LogoURL != nil {
		settings.LogoURL = *update.LogoURL
	}
	if update.BackgroundURL != nil {
		settings.BackgroundURL = *update.BackgroundURL
	}
	if update.LandingHeroURL != nil {
		settings.LandingHeroURL = *update.LandingHeroURL
	}
	if update.LoginBgURL != nil {
		settings.LoginBgURL = *update.LoginBgURL
	}
	if update.RegisterBgURL != nil {
		settings.RegisterBgURL = *update.RegisterBgURL
	}
	if update.PaymentMode != nil {
		if *update.PaymentMode != models.PaymentModeFree && *update.PaymentMode != models.PaymentModePaid {
			return nil, models.NewValidationError("payment_mode must be 'free' or 'paid'")
		}
		settings.PaymentMode = *update.PaymentMode
	}
	if update.PaypalEmail != nil {
		settings.PaypalEmail = *update.PaypalEmail
	}

	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, translateStoreError(err)
	}
	cache.InvalidateSettings(ctx)
	return settings, nil
}
