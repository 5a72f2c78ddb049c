package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRole(t *testing.T) {
	cases := map[Role]RoleClass{
		"SUPER_ADMIN":     RoleClassSuperAdmin,
		"admin":           RoleClassAdmin,
		"GESTOR_EMPRESAS": RoleClassAccountManager,
		"account_manager": RoleClassAccountManager,
		"EMPRESA":         RoleClassCompany,
		"Company":         RoleClassCompany,
		"bodeguero":       RoleClassOther,
		"":                RoleClassOther,
	}
	for role, want := range cases {
		assert.Equal(t, want, ClassifyRole(role), string(role))
	}
}

func TestActorCanSee(t *testing.T) {
	am := "am1"
	other := "am2"
	mine := &Lead{AssignedToID: &am}
	theirs := &Lead{AssignedToID: &other}
	unassigned := &Lead{}

	admin := Actor{UserID: "x", Role: RoleSuperAdmin}
	assert.True(t, admin.SeesAllLeads())
	assert.True(t, admin.CanSee(unassigned))

	manager := Actor{UserID: "am1", Role: RoleAccountManager}
	assert.False(t, manager.SeesAllLeads())
	assert.True(t, manager.CanSee(mine))
	assert.False(t, manager.CanSee(theirs))
	assert.False(t, manager.CanSee(unassigned))
}

func TestActorCanSeeCompany(t *testing.T) {
	am := "am1"
	managed := &Company{ID: "co-1", AccountManagerID: &am}
	orphan := &Company{ID: "co-2"}

	gestor := Actor{UserID: "am1", Role: RoleAccountManager}
	assert.True(t, gestor.CanSeeCompany(managed))
	assert.False(t, gestor.CanSeeCompany(orphan))
	assert.False(t, Actor{UserID: "am2", Role: "ACCOUNT_MANAGER"}.CanSeeCompany(managed))
	assert.True(t, Actor{UserID: "x", Role: RoleAdmin}.CanSeeCompany(orphan))

	assert.Equal(t, "am1", gestor.ScopeUserID())
	assert.Empty(t, Actor{UserID: "sa", Role: RoleSuperAdmin}.ScopeUserID())
}
