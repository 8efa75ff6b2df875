package reports

const (
	TypeWeekly  = "weekly"
	TypeMonthly = "monthly"
)

var Types = []string{TypeWeekly, TypeMonthly}

func ValidType(reportType string) bool {
	for _, candidate := range Types {
		if candidate == reportType {
			return true
		}
	}
	return false
}
