package nav

import "github.com/malindutharaka300/ucms-f/core/user"

type Item struct {
	Text  string
	Route string
}

// Items is the side navigation for usr. Assign is for admins only.
func Items(usr user.User) []Item {
	items := []Item{
		{Text: "Courses", Route: RouteCourses},
		{Text: "Result", Route: RouteResults},
	}
	if usr.IsAdmin() {
		items = append(items, Item{Text: "Assign", Route: RouteAssignments})
	}
	return items
}
