package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFromClaims(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]any
		want   Role
	}{
		{"nil claims", nil, RoleMember},
		{"role string", map[string]any{"role": "coach"}, RoleCoach},
		{"unknown role string", map[string]any{"role": "janitor"}, RoleMember},
		{"admin flag", map[string]any{"admin": true}, RoleAdmin},
		{"coach flag", map[string]any{"coach": true}, RoleCoach},
		{"roles array", map[string]any{"roles": []any{"member", "admin"}}, RoleAdmin},
		{"empty", map[string]any{}, RoleMember},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, RoleFromClaims(c.claims))
		})
	}
}

func TestOperator(t *testing.T) {
	assert.False(t, Actor{Role: RoleMember}.Operator())
	assert.True(t, Actor{Role: RoleCoach}.Operator())
	assert.True(t, Actor{Role: RoleAdmin}.Operator())
	assert.False(t, Actor{Role: RoleCoach}.Admin())
	assert.True(t, Actor{Role: RoleAdmin}.Admin())
}
