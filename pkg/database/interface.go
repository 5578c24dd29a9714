package database

import (
	"errors"

	"project-mgmt-backend/pkg/models"
)

// Sentinel errors so handlers can map storage outcomes onto the failure
// taxonomy (404 / 409) without string matching.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DatabaseInterface defines the storage collaborator. The relational store is
// the sole arbiter of consistency; no method spans a transaction.
type DatabaseInterface interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id string) error

	// Organizations
	CreateOrganization(org *models.Organization) error
	GetOrganization(id string) (*models.Organization, error)
	GetOrganizationBySlug(slug string) (*models.Organization, error)
	ListOrganizationsByOwner(ownerID string) ([]models.Organization, error)
	UpdateOrganization(org *models.Organization) error
	DeleteOrganization(id string) error

	// Memberships
	AddOrganizationMember(m *models.OrganizationMember) error
	GetOrganizationMember(orgID, userID string) (*models.OrganizationMember, error)
	ListOrganizationMembers(orgID string) ([]models.OrganizationMember, error)
	// RemoveOrganizationMember deletes the membership row for the pair.
	// Removing an absent membership is a no-op.
	RemoveOrganizationMember(orgID, userID string) error

	// Projects
	CreateProject(p *models.Project) error
	GetProject(id string) (*models.Project, error)
	ListProjectsByOrganization(orgID string) ([]models.Project, error)
	UpdateProject(p *models.Project) error
	DeleteProject(id string) error

	// Tasks
	CreateTask(t *models.Task) error
	GetTask(id string) (*models.Task, error)
	// ListTasksByProject returns one page of tasks plus the total count of
	// tasks matching the filter.
	ListTasksByProject(projectID string, filter models.TaskFilter, page, limit int) ([]models.Task, int, error)
	UpdateTask(t *models.Task) error
	DeleteTask(id string) error

	// Comments
	CreateComment(c *models.Comment) error
	GetComment(id string) (*models.Comment, error)
	ListCommentsByTask(taskID string) ([]models.Comment, error)
	UpdateComment(c *models.Comment) error
	DeleteComment(id string) error

	HealthCheck() error
	Close() error
}
