package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Fixed-rate, fully amortizing loan with monthly compounding",
	"Monthly rate = annual rate / 12 (no APR fees or points)",
	"Escrow = property tax / 12 + insurance / 12 + HOA dues",
	"Money rounded to cents with banker's rounding; final payment absorbs drift",
	"Front-end ceiling covers housing; back-end ceiling covers housing plus debts",
}
