package panel

import (
	"context"
	"strconv"

	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/user"
)

// MethodOverrideField carries the intended verb of multipart updates,
// which travel as POST.
const MethodOverrideField = "_method"

type (
	// Record is a server-owned entity listed by a panel.
	Record interface {
		RecordID() int
	}

	// NoOptions is the lookup payload of panels without lookups.
	NoOptions struct{}

	// Messages are the notification texts of a panel.
	Messages struct {
		LoadFailed   string
		ShowFailed   string
		Created      string
		Updated      string
		Deleted      string
		Invalid      string // empty: use the validation summary
		SubmitFailed string
		DeleteFailed string
	}

	// Resource describes one entity type: its endpoints, how drafts are
	// seeded and how they are put on the wire.
	// R is the record, D the form draft (a struct with `validate` tags)
	// and O the lookup options payload.
	Resource[R Record, D any, O any] interface {
		Messages() Messages
		ListPath() string
		// OptionsPath is empty when the panel has no lookups.
		OptionsPath() string
		DeletePath(id int) string
		// NewDraft returns the draft of a fresh create form opened by me.
		NewDraft(me user.User) D
		// DraftFrom seeds an edit draft from rec.
		DraftFrom(rec R) D
		CreateRequest(d D) gateway.Request
		UpdateRequest(id int, d D) gateway.Request
	}

	// Shower is implemented by resources with a detail endpoint.
	Shower interface {
		ShowPath(id int) string
	}

	API interface {
		Do(ctx context.Context, r gateway.Request) error
	}

	// Identity gives the identity last resolved for the session.
	Identity interface {
		User() (user.User, bool)
	}
)

// DefaultMessages fills the texts every panel shares.
func DefaultMessages(msgs Messages) Messages {
	if msgs.LoadFailed == "" {
		msgs.LoadFailed = "Failed to load"
	}
	if msgs.SubmitFailed == "" {
		msgs.SubmitFailed = "Operation failed"
	}
	if msgs.DeleteFailed == "" {
		msgs.DeleteFailed = "Delete failed"
	}
	if msgs.ShowFailed == "" {
		msgs.ShowFailed = "Failed to load"
	}
	return msgs
}

// Ref is a nested reference to a course or a user, as embedded in records and
// returned by the lookup endpoints.
type Ref struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Email string `json:"email,omitempty"`
}

// Lookups are the options of the assignment and result forms.
type Lookups struct {
	Courses  []Ref `json:"courses"`
	Students []Ref `json:"students"`
}

// RefID returns id, or the id of the nested ref when id is unset.
func RefID(id int, ref *Ref) int {
	if id == 0 && ref != nil {
		return ref.ID
	}
	return id
}

// RefName returns the nested ref's name, or "#id" when it was not embedded.
func RefName(id int, ref *Ref) string {
	if ref != nil && ref.Name != "" {
		return ref.Name
	}
	return "#" + strconv.Itoa(id)
}
