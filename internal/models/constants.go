package models

// Роли пользователей платформы
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// ProjectStatus константы статусов проектов
const (
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// ProposalStatus константы статусов предложений
const (
	ProposalStatusPending  = "pending"
	ProposalStatusAccepted = "accepted"
	ProposalStatusRejected = "rejected"
)

// ContractStatus константы статусов контрактов
const (
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
)

// MilestoneStatus константы статусов этапов.
// Переходы строго вперёд: pending -> submitted -> approved.
const (
	MilestoneStatusPending   = "pending"
	MilestoneStatusSubmitted = "submitted"
	MilestoneStatusApproved  = "approved"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleClient:     {},
	RoleFreelancer: {},
}

// ValidProjectStatuses список валидных статусов проектов
var ValidProjectStatuses = map[string]struct{}{
	ProjectStatusOpen:       {},
	ProjectStatusInProgress: {},
	ProjectStatusCompleted:  {},
}

// ValidContractStatuses список валидных статусов контрактов
var ValidContractStatuses = map[string]struct{}{
	ContractStatusActive:    {},
	ContractStatusCompleted: {},
}
