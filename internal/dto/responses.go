package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
	"github.com/ignatzorin/freelance-market-backend/internal/validation"
)

// AuthResponse represents the authentication result with tokens
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// NewAuthResponse creates an AuthResponse from the service result
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:         result.User,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
	}
}

// ProjectResponse represents a project with its deadline formatted as a date
type ProjectResponse struct {
	*models.Project
	Deadline string `json:"deadline"`
}

// NewProjectResponse creates a ProjectResponse from a model
func NewProjectResponse(project *models.Project) *ProjectResponse {
	return &ProjectResponse{
		Project:  project,
		Deadline: project.Deadline.Format(validation.DateLayout),
	}
}

// ProjectListItemResponse represents a project in listings with client info
type ProjectListItemResponse struct {
	*ProjectResponse
	ClientName     string `json:"client_name"`
	ProposalsCount int    `json:"proposals_count"`
}

// NewProjectListResponse creates list items from repository rows
func NewProjectListResponse(rows []repository.ProjectWithMeta) []ProjectListItemResponse {
	items := make([]ProjectListItemResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ProjectListItemResponse{
			ProjectResponse: NewProjectResponse(&rows[i].Project),
			ClientName:      rows[i].ClientName,
			ProposalsCount:  rows[i].ProposalsCount,
		})
	}
	return items
}

// ProposalWithFreelancerResponse represents a proposal with freelancer info
type ProposalWithFreelancerResponse struct {
	*models.Proposal
	FreelancerName   string   `json:"freelancer_name"`
	FreelancerSkills []string `json:"freelancer_skills"`
}

// NewProposalListResponse creates list items from repository rows
func NewProposalListResponse(rows []repository.ProposalWithFreelancer) []ProposalWithFreelancerResponse {
	items := make([]ProposalWithFreelancerResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ProposalWithFreelancerResponse{
			Proposal:         &rows[i].Proposal,
			FreelancerName:   rows[i].FreelancerName,
			FreelancerSkills: rows[i].FreelancerSkills,
		})
	}
	return items
}

// MilestoneResponse represents a milestone with its due date formatted
type MilestoneResponse struct {
	*models.Milestone
	DueDate string `json:"due_date"`
}

// NewMilestoneResponse creates a MilestoneResponse from a model
func NewMilestoneResponse(milestone *models.Milestone) *MilestoneResponse {
	return &MilestoneResponse{
		Milestone: milestone,
		DueDate:   milestone.DueDate.Format(validation.DateLayout),
	}
}

// NewMilestoneListResponse formats a slice of milestones
func NewMilestoneListResponse(milestones []models.Milestone) []MilestoneResponse {
	items := make([]MilestoneResponse, 0, len(milestones))
	for i := range milestones {
		items = append(items, *NewMilestoneResponse(&milestones[i]))
	}
	return items
}

// AcceptProposalResponse represents the result of accepting a proposal
type AcceptProposalResponse struct {
	Proposal   *models.Proposal    `json:"proposal"`
	Contract   *models.Contract    `json:"contract"`
	Milestones []MilestoneResponse `json:"milestones"`
}

// NewAcceptProposalResponse creates the response from the service result
func NewAcceptProposalResponse(result *service.AcceptResult) *AcceptProposalResponse {
	return &AcceptProposalResponse{
		Proposal:   result.Proposal,
		Contract:   result.Contract,
		Milestones: NewMilestoneListResponse(result.Milestones),
	}
}

// CurrentMilestoneInfo represents the first unapproved milestone of a contract
type CurrentMilestoneInfo struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Status  string    `json:"status"`
	DueDate string    `json:"due_date"`
}

// ContractListItemResponse represents a contract in listings
type ContractListItemResponse struct {
	*models.Contract
	ProjectTitle     string                `json:"project_title"`
	ClientName       string                `json:"client_name"`
	FreelancerName   string                `json:"freelancer_name"`
	CurrentMilestone *CurrentMilestoneInfo `json:"current_milestone,omitempty"`
}

// NewContractListResponse creates list items from repository rows
func NewContractListResponse(rows []repository.ContractListItem) []ContractListItemResponse {
	items := make([]ContractListItemResponse, 0, len(rows))
	for i := range rows {
		item := ContractListItemResponse{
			Contract:       &rows[i].Contract,
			ProjectTitle:   rows[i].ProjectTitle,
			ClientName:     rows[i].ClientName,
			FreelancerName: rows[i].FreelancerName,
		}
		if rows[i].CurrentMilestoneID != nil {
			item.CurrentMilestone = &CurrentMilestoneInfo{
				ID:      *rows[i].CurrentMilestoneID,
				Title:   *rows[i].CurrentMilestoneTitle,
				Status:  *rows[i].CurrentMilestoneStatus,
				DueDate: rows[i].CurrentMilestoneDueDate.Format(validation.DateLayout),
			}
		}
		items = append(items, item)
	}
	return items
}

// ContractDetailsResponse represents a contract with all its milestones
type ContractDetailsResponse struct {
	*models.Contract
	Milestones []MilestoneResponse `json:"milestones"`
}

// NewContractDetailsResponse creates the response from the service result
func NewContractDetailsResponse(details *service.ContractDetails) *ContractDetailsResponse {
	return &ContractDetailsResponse{
		Contract:   details.Contract,
		Milestones: NewMilestoneListResponse(details.Milestones),
	}
}

// MilestoneActionResponse represents the result of submitting or approving
// a milestone, including the contract completion flag
type MilestoneActionResponse struct {
	Milestone         *MilestoneResponse `json:"milestone"`
	ContractCompleted bool               `json:"contract_completed"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
