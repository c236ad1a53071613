package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{in: "ROLE_ADMIN", want: RoleAdmin, ok: true},
		{in: "admin", want: RoleAdmin, ok: true},
		{in: " Developer ", want: RoleDeveloper, ok: true},
		{in: "role_tester", want: RoleTester, ok: true},
		{in: "STAKEHOLDER", want: RoleStakeholder, ok: true},
		{in: "user", want: RoleUser, ok: true},
		{in: "", ok: false},
		{in: "ROLE_", ok: false},
		{in: "superuser", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("high")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	assert.False(t, ok)
}
