package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusInProgress = "inProgress"
	OrderStatusDelivered  = "delivered"
)

const (
	GlassTypeMineral       = "mineral"
	GlassTypeOrganic       = "organic"
	GlassTypePolycarbonate = "polycarbonate"
)

// ── Configurable labels (no DB constraint) ──

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	UserRoleAdmin  = "ADMIN"
	UserRoleSeller = "SELLER"
)

// Settings keys persisted for the desktop shell.
const (
	SettingLanguage = "language"
	SettingTheme    = "theme"
)
