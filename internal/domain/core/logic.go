package core

// ValidCareerLevel reports whether the level is inside the 1..5 ladder.
func ValidCareerLevel(level int) bool {
	return level >= CareerLevelMin && level <= CareerLevelMax
}

// ValidSalaryBand enforces max strictly above min for a career path.
func ValidSalaryBand(minSalary, maxSalary float64) bool {
	return minSalary >= 0 && maxSalary > minSalary
}

func ValidContractType(contractType string) bool {
	for _, candidate := range ContractTypes {
		if candidate == contractType {
			return true
		}
	}
	return false
}
