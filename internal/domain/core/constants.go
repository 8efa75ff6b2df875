package core

const (
	ContractFulltime = "fulltime"
	ContractParttime = "parttime"
	ContractContract = "contract"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	CareerLevelMin = 1
	CareerLevelMax = 5
)

var ContractTypes = []string{ContractFulltime, ContractParttime, ContractContract}
