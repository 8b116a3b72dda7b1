// Package panel implements the list + form + delete controller shared by
// every resource dashboard.
//
// A panel never patches its list locally: every successful create, update or
// delete is followed by a full re-fetch, so the list is always a snapshot of
// what the server returned last. Simultaneous edits from two clients are not
// detected; the last write wins.
package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
)

type LoadState int

const (
	Idle LoadState = iota
	Loading
	Ready
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

var (
	ErrUnmounted       = errors.New("panel is not mounted")
	ErrFormClosed      = errors.New("form is not open")
	ErrSubmitInFlight  = errors.New("a submission is already in flight")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrNotListed       = errors.New("record is not in the list")
	ErrNoDetail        = errors.New("resource has no detail view")
)

type (
	Deps struct {
		API        API
		Identity   Identity
		Notifier   Notifier
		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger
	}

	// Controls tells which mutation controls may be rendered.
	Controls struct {
		Create bool
		Edit   bool
		Delete bool
	}

	Panel[R Record, D any, O any] struct {
		res  Resource[R, D, O]
		msgs Messages
		deps Deps

		mutex   sync.Mutex
		mounted bool
		gen     uint64 // bumped on every mount/unmount
		loadSeq uint64
		state   LoadState
		items   []R
		options O

		form       FormMode
		editingID  int
		draft      D
		submitting bool

		confirmOpen bool
		confirmID   int
	}
)

func New[R Record, D any, O any](res Resource[R, D, O], deps Deps) *Panel[R, D, O] {
	return &Panel[R, D, O]{
		res:  res,
		msgs: DefaultMessages(res.Messages()),
		deps: deps,
	}
}

// Mount attaches the panel to the view and loads it.
func (p *Panel[R, D, O]) Mount(ctx context.Context) error {
	p.mutex.Lock()
	p.mounted = true
	p.gen++
	p.mutex.Unlock()
	return p.Load(ctx)
}

// Unmount tears the view down. Responses still in flight are dropped.
func (p *Panel[R, D, O]) Unmount() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.mounted = false
	p.gen++
	p.closeForm()
	p.confirmOpen, p.confirmID = false, 0
}

// Load fetches the list and, when the panel has lookups, its options
// concurrently. Both must succeed; on failure the list is emptied.
func (p *Panel[R, D, O]) Load(ctx context.Context) error {
	p.mutex.Lock()
	if !p.mounted {
		p.mutex.Unlock()
		return ErrUnmounted
	}
	gen := p.gen
	p.loadSeq++
	seq := p.loadSeq
	p.state = Loading
	p.mutex.Unlock()

	items, opts, err := p.fetch(ctx)

	p.mutex.Lock()
	if !p.mounted || p.gen != gen {
		p.mutex.Unlock()
		return ErrUnmounted
	}
	if seq != p.loadSeq {
		// a newer load owns the view
		p.mutex.Unlock()
		return err
	}
	p.state = Ready
	if err != nil {
		var zero O
		p.items, p.options = nil, zero
		p.mutex.Unlock()
		p.notify(Failure, core.Message(err, p.msgs.LoadFailed))
		return err
	}
	p.items, p.options = items, opts
	p.mutex.Unlock()
	return nil
}

func (p *Panel[R, D, O]) fetch(ctx context.Context) ([]R, O, error) {
	var raw json.RawMessage
	var opts O

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.deps.API.Do(gctx, gateway.Request{Method: http.MethodGet, Path: p.res.ListPath(), Result: &raw})
	})
	if path := p.res.OptionsPath(); path != "" {
		g.Go(func() error {
			return p.deps.API.Do(gctx, gateway.Request{Method: http.MethodGet, Path: path, Result: &opts})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, opts, err
	}

	items, err := decodeList[R](raw)
	if err != nil {
		return nil, opts, errors.Wrap(err, "decoding list")
	}
	return items, opts, nil
}

// decodeList treats anything but a JSON array as an empty list.
func decodeList[R any](raw json.RawMessage) ([]R, error) {
	items := make([]R, 0)
	if !gjson.ParseBytes(raw).IsArray() {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Panel[R, D, O]) State() LoadState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.state
}

// Items returns a copy of the current list snapshot.
func (p *Panel[R, D, O]) Items() []R {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	items := make([]R, len(p.items))
	copy(items, p.items)
	return items
}

func (p *Panel[R, D, O]) Options() O {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.options
}

// Controls is computed from the identity resolved for the session on every
// call. Only admins get mutation controls; the backend still has the final say.
func (p *Panel[R, D, O]) Controls() Controls {
	admin := p.isAdmin()
	return Controls{Create: admin, Edit: admin, Delete: admin}
}

func (p *Panel[R, D, O]) isAdmin() bool {
	usr, ok := p.deps.Identity.User()
	return ok && usr.IsAdmin()
}

// OpenCreate opens the form with an empty draft.
func (p *Panel[R, D, O]) OpenCreate() error {
	if !p.isAdmin() {
		return core.ErrPermissionDenied
	}
	me, _ := p.deps.Identity.User()

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.mounted {
		return ErrUnmounted
	}
	p.form = FormCreate
	p.editingID = 0
	p.draft = p.res.NewDraft(me)
	return nil
}

// OpenEdit opens the form seeded from the listed record id.
func (p *Panel[R, D, O]) OpenEdit(id int) error {
	if !p.isAdmin() {
		return core.ErrPermissionDenied
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.mounted {
		return ErrUnmounted
	}
	rec, ok := p.find(id)
	if !ok {
		return ErrNotListed
	}
	p.form = FormEdit
	p.editingID = id
	p.draft = p.res.DraftFrom(rec)
	return nil
}

func (p *Panel[R, D, O]) find(id int) (R, bool) {
	for _, rec := range p.items {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero R
	return zero, false
}

// Form returns the open form's mode and a copy of its draft.
func (p *Panel[R, D, O]) Form() (FormMode, D) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.form, p.draft
}

// Editing returns the id of the record being edited.
func (p *Panel[R, D, O]) Editing() (int, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.editingID, p.form == FormEdit
}

// UpdateDraft applies fn to the open form's draft.
func (p *Panel[R, D, O]) UpdateDraft(fn func(d *D)) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.form == FormClosed {
		return ErrFormClosed
	}
	fn(&p.draft)
	return nil
}

// CloseForm discards the draft.
func (p *Panel[R, D, O]) CloseForm() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.closeForm()
}

func (p *Panel[R, D, O]) closeForm() {
	var zero D
	p.form = FormClosed
	p.editingID = 0
	p.draft = zero
}

// Submit validates the draft, sends it and reloads the list.
// Missing required fields abort before any request. A failed request keeps
// the form open. Once the mutation succeeded Submit returns nil; a failing
// reload reports itself.
// An answer arriving after Unmount is not reported.
func (p *Panel[R, D, O]) Submit(ctx context.Context) error {
	p.mutex.Lock()
	if !p.mounted {
		p.mutex.Unlock()
		return ErrUnmounted
	}
	if p.form == FormClosed {
		p.mutex.Unlock()
		return ErrFormClosed
	}
	if p.submitting {
		p.mutex.Unlock()
		return ErrSubmitInFlight
	}
	mode, id, draft, gen := p.form, p.editingID, p.draft, p.gen
	if err := core.ValidateStruct(p.deps.Validate, p.deps.Translator, draft); err != nil {
		p.mutex.Unlock()
		msg := p.msgs.Invalid
		if msg == "" {
			msg = core.Message(err, "Fill all required fields")
		}
		p.notify(Failure, msg)
		return err
	}
	p.submitting = true
	p.mutex.Unlock()

	var req gateway.Request
	var okMsg string
	if mode == FormEdit {
		req, okMsg = p.res.UpdateRequest(id, draft), p.msgs.Updated
	} else {
		req, okMsg = p.res.CreateRequest(draft), p.msgs.Created
	}
	err := p.deps.API.Do(ctx, req)

	p.mutex.Lock()
	p.submitting = false
	live := p.gen == gen
	if err == nil && live {
		p.closeForm()
	}
	p.mutex.Unlock()

	if !live {
		return err
	}
	if err != nil {
		p.notify(Failure, core.Message(err, p.msgs.SubmitFailed))
		return err
	}
	p.notify(Success, okMsg)
	p.reload(ctx)
	return nil
}

// Submitting reports whether a mutation is in flight.
func (p *Panel[R, D, O]) Submitting() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.submitting
}

// AskDelete opens the delete confirmation for id.
func (p *Panel[R, D, O]) AskDelete(id int) error {
	if !p.isAdmin() {
		return core.ErrPermissionDenied
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.mounted {
		return ErrUnmounted
	}
	p.confirmOpen, p.confirmID = true, id
	return nil
}

// PendingDelete returns the id awaiting confirmation.
func (p *Panel[R, D, O]) PendingDelete() (int, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.confirmID, p.confirmOpen
}

func (p *Panel[R, D, O]) CancelDelete() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.confirmOpen, p.confirmID = false, 0
}

// ConfirmDelete deletes the record awaiting confirmation. On success the list
// is reloaded; on failure it is left as it was.
func (p *Panel[R, D, O]) ConfirmDelete(ctx context.Context) error {
	p.mutex.Lock()
	if !p.confirmOpen {
		p.mutex.Unlock()
		return ErrNoPendingDelete
	}
	id, gen := p.confirmID, p.gen
	p.confirmOpen, p.confirmID = false, 0
	p.mutex.Unlock()

	err := p.deps.API.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: p.res.DeletePath(id)})
	if !p.current(gen) {
		return err
	}
	if err != nil {
		p.notify(Failure, p.msgs.DeleteFailed)
		return err
	}
	p.notify(Success, p.msgs.Deleted)
	p.reload(ctx)
	return nil
}

// Delete asks confirm before deleting id. A declined confirmation is not an error.
func (p *Panel[R, D, O]) Delete(ctx context.Context, id int, confirm func() bool) error {
	if err := p.AskDelete(id); err != nil {
		return err
	}
	if !confirm() {
		p.CancelDelete()
		return nil
	}
	return p.ConfirmDelete(ctx)
}

// Show fetches one record from the resource's detail endpoint.
func (p *Panel[R, D, O]) Show(ctx context.Context, id int) (R, error) {
	var rec R
	shower, ok := any(p.res).(Shower)
	if !ok {
		return rec, ErrNoDetail
	}
	p.mutex.Lock()
	gen := p.gen
	p.mutex.Unlock()

	req := gateway.Request{Method: http.MethodGet, Path: shower.ShowPath(id), Result: &rec}
	if err := p.deps.API.Do(ctx, req); err != nil {
		if p.current(gen) {
			p.notify(Failure, p.msgs.ShowFailed)
		}
		return rec, err
	}
	return rec, nil
}

// current reports whether no mount or unmount happened since gen was read.
// Answers to requests sent under an older generation are not reported.
func (p *Panel[R, D, O]) current(gen uint64) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.gen == gen
}

func (p *Panel[R, D, O]) reload(ctx context.Context) {
	if err := p.Load(ctx); err != nil && err != ErrUnmounted {
		p.deps.Logger.Warn("reloading after mutation", err)
	}
}

func (p *Panel[R, D, O]) notify(severity Severity, msg string) {
	if p.deps.Notifier != nil {
		p.deps.Notifier.Notify(severity, msg)
	}
}
