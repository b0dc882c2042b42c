package schedule

// Service categories offered by the garage.
var ServiceCategories = []string{
	"maintenance",
	"oil_change",
	"tires",
	"brakes",
	"diagnostic",
	"bodywork",
	"inspection",
	"other",
}

func IsValidService(s string) bool {
	for _, c := range ServiceCategories {
		if c == s {
			return true
		}
	}
	return false
}
