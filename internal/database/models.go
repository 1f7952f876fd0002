package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Client is a store customer. Debit is the running balance the client
// still owes the store.
type Client struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Gender      string
	Profession  pgtype.Text
	PhoneNumber string
	Debit       pgtype.Numeric
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Doctor is a prescribing ophthalmologist, optionally referenced by orders.
type Doctor struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Specialty   pgtype.Text
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is a catalog item (frame, lens, accessory). StockQuantity is
// maintained by the order service, not by a database constraint.
type Product struct {
	ID            uuid.UUID
	Reference     string
	Name          string
	Type          pgtype.Text
	Brand         pgtype.Text
	Color         pgtype.Text
	Category      pgtype.Text
	PurchasePrice pgtype.Numeric
	SellingPrice  pgtype.Numeric
	StockQuantity int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order holds the order header: prescription measurements for both eyes,
// glass specification, and the stored total. OrderDate is immutable after
// creation; updates never touch it.
type Order struct {
	ID             uuid.UUID
	OrderDate      time.Time
	DeliveryDate   pgtype.Date
	ClientID       uuid.UUID
	DoctorID       pgtype.UUID
	SocialSecurity bool
	LeftSph        pgtype.Numeric
	LeftCyl        pgtype.Numeric
	LeftAxis       pgtype.Numeric
	LeftAdd        pgtype.Numeric
	LeftEp         pgtype.Numeric
	LeftHp         pgtype.Numeric
	LeftPrism      pgtype.Numeric
	LeftPrismAxis  pgtype.Numeric
	RightSph       pgtype.Numeric
	RightCyl       pgtype.Numeric
	RightAxis      pgtype.Numeric
	RightAdd       pgtype.Numeric
	RightEp        pgtype.Numeric
	RightHp        pgtype.Numeric
	RightPrism     pgtype.Numeric
	RightPrismAxis pgtype.Numeric
	GlassType      string
	GlassIndex     pgtype.Numeric
	TotalAmount    pgtype.Numeric
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderProduct is one line item: a product, quantity, and the price
// snapshot taken when the line was written. SubTotal is quantity times
// unit price, rounded to two decimals at write time.
type OrderProduct struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice pgtype.Numeric
	SubTotal  pgtype.Numeric
}

// OrderVision is the one-to-one vision-type checklist for an order.
type OrderVision struct {
	OrderID         uuid.UUID
	FarSightedness  bool
	NearSightedness bool
	Progressive     bool
	Solar           bool
}

// OrderTreatment is the one-to-one lens-treatment checklist for an order.
type OrderTreatment struct {
	OrderID       uuid.UUID
	White         bool
	AntiBlueLight bool
	AntiReflexion bool
	Degraded      bool
	Polarized     bool
	Mirrored      bool
	Transitions   bool
	UniColor      bool
}

// User is a staff account able to sign in to the application.
type User struct {
	ID             uuid.UUID
	Username       string
	HashedPassword string
	FullName       string
	Role           string
	CreatedAt      time.Time
}

// Setting is one persisted UI preference (language, theme).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
