package domain

// Categories is the fixed taxonomy used by the categorizer and budgets.
var Categories = []string{
	"Groceries",
	"Dining",
	"Transport",
	"Utilities",
	"Shopping",
	"Entertainment",
	"Health",
	"Subscriptions",
	"Income",
	"Savings",
	"Other",
}

// ValidCategory reports whether name is one of the known categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
