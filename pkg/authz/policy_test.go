package authz

import (
	"testing"

	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrgWithMembers(t *testing.T, db database.DatabaseInterface) (org *models.Organization, owner, member, outsider *models.User) {
	t.Helper()

	owner = &models.User{Email: "owner@example.com", Password: "x", FirstName: "O", LastName: "W", IsActive: true}
	member = &models.User{Email: "member@example.com", Password: "x", FirstName: "M", LastName: "E", IsActive: true}
	outsider = &models.User{Email: "outsider@example.com", Password: "x", FirstName: "X", LastName: "Y", IsActive: true}
	for _, u := range []*models.User{owner, member, outsider} {
		require.NoError(t, db.CreateUser(u))
	}

	org = &models.Organization{Name: "Tech Corp", Slug: "tech-corp", OwnerID: owner.ID}
	require.NoError(t, db.CreateOrganization(org))
	require.NoError(t, db.AddOrganizationMember(&models.OrganizationMember{OrganizationID: org.ID, UserID: owner.ID, Role: models.RoleAdmin}))
	require.NoError(t, db.AddOrganizationMember(&models.OrganizationMember{OrganizationID: org.ID, UserID: member.ID, Role: models.RoleMember}))
	return org, owner, member, outsider
}

func TestRequireMember(t *testing.T) {
	db := database.NewMemoryDatabase()
	policy := NewPolicy(db)
	org, owner, member, outsider := seedOrgWithMembers(t, db)

	assert.NoError(t, policy.RequireMember(org.ID, owner.ID))
	assert.NoError(t, policy.RequireMember(org.ID, member.ID))

	err := policy.RequireMember(org.ID, outsider.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "You are not a member of this organization", err.Error())
}

func TestRequireAdmin(t *testing.T) {
	db := database.NewMemoryDatabase()
	policy := NewPolicy(db)
	org, owner, member, outsider := seedOrgWithMembers(t, db)

	assert.NoError(t, policy.RequireAdmin(org.ID, owner.ID, "invite members"))

	err := policy.RequireAdmin(org.ID, member.ID, "invite members")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only admins can invite members", err.Error())

	// Non-members get the membership message, not the role message
	err = policy.RequireAdmin(org.ID, outsider.ID, "invite members")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "You are not a member of this organization", err.Error())
}

func TestRequireOwner(t *testing.T) {
	db := database.NewMemoryDatabase()
	policy := NewPolicy(db)
	org, owner, member, _ := seedOrgWithMembers(t, db)

	assert.NoError(t, policy.RequireOwner(org, owner.ID, "delete the organization"))

	err := policy.RequireOwner(org, member.ID, "delete the organization")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only the owner can delete the organization", err.Error())
}

func TestRequireCreator(t *testing.T) {
	policy := NewPolicy(database.NewMemoryDatabase())

	assert.NoError(t, policy.RequireCreator("u1", "u1", "project", "delete"))

	err := policy.RequireCreator("u1", "u2", "comment", "update")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only the comment creator can update it", err.Error())
}

func TestMemberRoleNotFound(t *testing.T) {
	db := database.NewMemoryDatabase()
	policy := NewPolicy(db)
	org, _, member, outsider := seedOrgWithMembers(t, db)

	role, err := policy.MemberRole(org.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role)

	_, err = policy.MemberRole(org.ID, outsider.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
