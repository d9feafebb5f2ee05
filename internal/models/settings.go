package models

import "time"

// Payment modes. In free mode member actions cost no points.
const (
	PaymentModeFree = "free"
	PaymentModePaid = "paid"
)

// AppSettings is the singleton row holding dashboard-editable configuration:
// branding asset URLs, the payment-mode toggle and the PayPal address shown
// to purchasers. It is created with defaults on first read.
type AppSettings struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	LogoURL        string    `gorm:"type:text" json:"logo_url"`
	BackgroundURL  string    `gorm:"type:text" json:"background_url"`
	LandingHeroURL string    `gorm:"type:text" json:"landing_hero_url"`
	LoginBgURL     string    `gorm:"type:text" json:"login_bg_url"`
	RegisterBgURL  string    `gorm:"type:text" json:"register_bg_url"`
	PaymentMode    string    `gorm:"type:varchar(10);default:'paid'" json:"payment_mode"`
	PaypalEmail    string    `json:"paypal_email"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (AppSettings) TableName() string {
	return "app_settings"
}

// DefaultSettings returns the settings row inserted on first access.
func DefaultSettings() *AppSettings {
	return &AppSettings{
		PaymentMode: PaymentModePaid,
	}
}

// AppSettingsUpdate carries the optional fields of a settings update; nil
// fields are left untouched.
type AppSettingsUpdate struct {
	LogoURL        *string `json:"logo_url"`
	BackgroundURL  *string `json:"background_url"`
	LandingHeroURL *string `json:"landing_hero_url"`
	LoginBgURL     *string `json:"login_bg_url"`
	RegisterBgURL  *string `json:"register_bg_url"`
	PaymentMode    *string `json:"payment_mode"`
	PaypalEmail    *string `json:"paypal_email"`
}
