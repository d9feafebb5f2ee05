package models

import "time"

// Payment lifecycle states.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment records a points purchase. The platform only tracks the order and
// its confirmation; settlement happens out of band via the configured PayPal
// address.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Reference   string    `gorm:"type:varchar(36);unique;not null" json:"reference"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	Price       float64   `gorm:"not null" json:"price"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaypalEmail string    `json:"paypal_email"`
	CreatedAt   time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// PointsPackage is a purchasable bundle of points.
type PointsPackage struct {
	Amount int     `json:"amount"`
	Price  float64 `json:"price"`
}

// PointsPackages is the fixed catalogue offered to members.
var PointsPackages = []PointsPackage{
	{Amount: 100, Price: 25.00},
	{Amount: 150, Price: 37.50},
	{Amount: 200, Price: 50.00},
	{Amount: 250, Price: 62.50},
	{Amount: 300, Price: 75.00},
	{Amount: 350, Price: 87.50},
	{Amount: 400, Price: 100.00},
	{Amount: 450, Price: 112.50},
	{Amount: 500, Price: 125.00},
}

// FindPointsPackage returns the catalogue entry for amount, or false.
func FindPointsPackage(amount int) (PointsPackage, bool) {
	for _, p := range PointsPackages {
		if p.Amount == amount {
			return p, true
		}
	}
	return PointsPackage{}, false
}
