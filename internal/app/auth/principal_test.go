package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type guarded struct {
	actor Principal
	roles []Role
}

func (g guarded) Actor() Principal      { return g.actor }
func (g guarded) AllowedRoles() []Role { return g.roles }

func TestCheck(t *testing.T) {
	guest := Principal{UserID: "g1", Role: RoleGuest}
	admin := Principal{UserID: "a1", Role: RoleAdmin}

	assert.ErrorIs(t, Check(guarded{}), ErrUnauthenticated)
	assert.NoError(t, Check(guarded{actor: guest}))
	assert.NoError(t, Check(guarded{actor: guest, roles: []Role{RoleGuest}}))
	assert.ErrorIs(t, Check(guarded{actor: admin, roles: []Role{RoleGuest}}), ErrForbidden)
	assert.NoError(t, Check(guarded{actor: admin, roles: StaffRoles}))
}

func TestParseRoleDefaultsToGuest(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	assert.Equal(t, RoleBranchManager, ParseRole("branch_manager"))
	assert.Equal(t, RoleGuest, ParseRole("superuser"))
	assert.Equal(t, RoleGuest, ParseRole(""))
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	ctx := WithPrincipal(context.Background(), Principal{UserID: "s1", Role: RoleStaff})
	p, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.True(t, p.IsStaff())
}
