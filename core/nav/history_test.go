package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malindutharaka300/ucms-f/core/user"
)

func TestHistory(t *testing.T) {
	h := NewHistory(RouteLogin)
	assert.Equal(t, RouteLogin, h.Current())

	_, ok := h.Back()
	assert.False(t, ok, "nothing before the first entry")

	h.Push(RouteCourses)
	h.Push(RouteResults)
	assert.Equal(t, []string{RouteLogin, RouteCourses, RouteResults}, h.Entries())

	route, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, RouteCourses, route)

	h.Replace(RouteLogin)
	assert.Equal(t, []string{RouteLogin, RouteLogin}, h.Entries())
	assert.NotContains(t, h.Entries(), RouteCourses)
}

func TestItems(t *testing.T) {
	tests := []struct {
		role string
		want []Item
	}{
		{role: user.RoleAdmin, want: []Item{{"Courses", RouteCourses}, {"Result", RouteResults}, {"Assign", RouteAssignments}}},
		{role: user.RoleStudent, want: []Item{{"Courses", RouteCourses}, {"Result", RouteResults}}},
		{role: user.RoleLecture, want: []Item{{"Courses", RouteCourses}, {"Result", RouteResults}}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, Items(user.User{Role: tt.role}))
		})
	}
}
