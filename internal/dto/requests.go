package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required"`
	Password   string   `json:"password" binding:"required"`
	Role       string   `json:"role"`
	Bio        *string  `json:"bio"`
	Skills     []string `json:"skills"`
	HourlyRate *string  `json:"hourly_rate"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateProjectRequest represents the request to post a project
type CreateProjectRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	Category       string   `json:"category" binding:"required"`
	BudgetMin      string   `json:"budget_min" binding:"required"`
	BudgetMax      string   `json:"budget_max" binding:"required"`
	Deadline       string   `json:"deadline" binding:"required"`
	RequiredSkills []string `json:"required_skills"`
}

// CreateProposalRequest represents the request to submit a proposal
type CreateProposalRequest struct {
	CoverLetter       string `json:"cover_letter" binding:"required"`
	ProposedPrice     string `json:"proposed_price" binding:"required"`
	EstimatedDuration int    `json:"estimated_duration" binding:"required"`
}

// MilestonePlanItemRequest represents one milestone in the acceptance plan
type MilestonePlanItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Amount      string  `json:"amount" binding:"required"`
	DueDate     string  `json:"due_date" binding:"required"`
}

// AcceptProposalRequest represents the request to accept a proposal
// with the milestone plan for the resulting contract
type AcceptProposalRequest struct {
	Milestones []MilestonePlanItemRequest `json:"milestones" binding:"required"`
}

// CreateReviewRequest represents the request to leave a review
// on a completed contract
type CreateReviewRequest struct {
	ContractID string  `json:"contract_id" binding:"required"`
	Rating     int     `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
}
