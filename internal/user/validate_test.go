package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+7 912 345-67-89", true},
		{"+7 9123456789", true},
		{"+79123456789", true},
		{"89123456789", false},
		{"+7 912 345", false},
		{"12345", false},
		{"+7123456789a", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.phone), tt.phone)
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"test.user+something@domain.co.uk", true},
		{"user@", false},
		{"", false},
		{"user name@example.com", false},
		{"user@.com", false},
		{"user.com", false},
		{"@domain.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.email), tt.email)
	}
}

func TestIdentity_MayReserve(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"unconfirmed user", Identity{Role: RoleUser}, false},
		{"confirmed user", Identity{Role: RoleUser, IsConfirmed: true}, true},
		{"organization", Identity{Role: RoleOrg}, true},
		{"admin", Identity{Role: RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.MayReserve())
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ivanov Ivan", (&User{Role: RoleUser, FirstName: "Ivan", LastName: "Ivanov"}).DisplayName())
	assert.Equal(t, "Swim Club", (&User{Role: RoleOrg, FirstName: "Anna", OrganizationName: "Swim Club"}).DisplayName())
	assert.Equal(t, "root", (&User{Role: RoleAdmin, Username: "root"}).DisplayName())
}
