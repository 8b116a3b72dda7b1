// Package nav tracks where the user is in the client.
package nav

import "sync"

// Routes the client core depends on.
const (
	RouteLogin       = "/"
	RouteRegister    = "/register"
	RouteDashboard   = "/dashboard"
	RouteCourses     = "/dashboard/courses"
	RouteResults     = "/dashboard/result"
	RouteAssignments = "/dashboard/assign"
)

// Navigator moves between views.
// Replace swaps the current entry so back-navigation cannot return to it.
type Navigator interface {
	Push(route string)
	Replace(route string)
}

// History is an in-process Navigator keeping a back stack.
type History struct {
	mutex   sync.RWMutex
	entries []string
}

var _ Navigator = (*History)(nil)

func NewHistory(start string) *History {
	return &History{entries: []string{start}}
}

func (h *History) Push(route string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.entries = append(h.entries, route)
}

func (h *History) Replace(route string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.entries[len(h.entries)-1] = route
}

// Back pops the current entry. It returns false at the first entry.
func (h *History) Back() (string, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.entries) < 2 {
		return h.entries[0], false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

func (h *History) Current() string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the back stack, oldest first.
func (h *History) Entries() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return append([]string(nil), h.entries...)
}
