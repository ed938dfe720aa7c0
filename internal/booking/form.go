package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/teskom-storefront/internal/catalog"
	"github.com/google/uuid"
)

var ErrUnknownEvent = errors.New("unknown booking event")

type State int

const (
	Empty State = iota
	Editing
	Valid
	Submitted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Valid:
		return "valid"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event is a user action on the form.
type Event interface {
	bookingEvent()
}

type (
	SelectItem   struct{ ID string }
	SetName      struct{ Value string }
	SetEmail     struct{ Value string }
	SetPhone     struct{ Value string }
	SetStartDate struct{ Value string }
	SetEndDate   struct{ Value string }
	Cancel       struct{}
	Submit       struct{}
)

func (SelectItem) bookingEvent()   {}
func (SetName) bookingEvent()      {}
func (SetEmail) bookingEvent()     {}
func (SetPhone) bookingEvent()     {}
func (SetStartDate) bookingEvent() {}
func (SetEndDate) bookingEvent()   {}
func (Cancel) bookingEvent()       {}
func (Submit) bookingEvent()       {}

// ParseEvent builds an event from its wire name.
func ParseEvent(typ, value string) (Event, error) {
	switch typ {
	case "select_item":
		return SelectItem{ID: value}, nil
	case "set_name":
		return SetName{Value: value}, nil
	case "set_email":
		return SetEmail{Value: value}, nil
	case "set_phone":
		return SetPhone{Value: value}, nil
	case "set_start_date":
		return SetStartDate{Value: value}, nil
	case "set_end_date":
		return SetEndDate{Value: value}, nil
	case "cancel":
		return Cancel{}, nil
	case "submit":
		return Submit{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, typ)
}

const StatusPending = "pending"

// Submission is an accepted booking handed to the intake.
type Submission struct {
	ID string `json:"id"`
	Draft
	ItemName    string         `json:"item_name"`
	DailyRate   catalog.Amount `json:"daily_rate"`
	TotalDays   int            `json:"total_days"`
	TotalCost   catalog.Amount `json:"total_cost"`
	Status      string         `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Intake receives accepted bookings.
type Intake interface {
	Submit(ctx context.Context, sub Submission) error
}

// View is the form as exposed to the page.
type View struct {
	State    State    `json:"state"`
	Draft    Draft    `json:"draft"`
	Valid    bool     `json:"valid"`
	Problems []Reason `json:"problems,omitempty"`
	Totals
}

type Option func(*Form)

// WithClock overrides time.Now for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// Form is the booking state machine for one visitor.
type Form struct {
	intake Intake
	now    func() time.Time

	mu          sync.Mutex
	items       Catalog
	state       State
	draft       Draft
	last        *Submission
	transitions []func(from, to State)
}

func NewForm(items Catalog, intake Intake, opts ...Option) *Form {
	f := &Form{
		items:  items,
		intake: intake,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnTransition registers fn to be called on every state change. fn runs with
// the form locked and must not call back into it.
func (f *Form) OnTransition(fn func(from, to State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, fn)
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetCatalog replaces the rental items the form validates against and moves
// the form to the state the new catalog implies.
func (f *Form) SetCatalog(items Catalog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.settle()
}

// Catalog returns the rental items the form validates against.
func (f *Form) Catalog() Catalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items
}

func (f *Form) snapshot() (State, Draft, Catalog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.draft, f.items
}

// Totals derives the current duration and cost.
func (f *Form) Totals() Totals {
	_, draft, items := f.snapshot()
	return Derive(draft, items)
}

func (f *Form) Valid() bool {
	return len(f.Problems()) == 0
}

// Problems returns the unmet conditions of the current draft.
func (f *Form) Problems() []Reason {
	_, draft, items := f.snapshot()
	return Validate(draft, items)
}

// LastSubmission returns the most recently accepted submission, if any.
func (f *Form) LastSubmission() (Submission, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Submission{}, false
	}
	return *f.last, true
}

func (f *Form) View() View {
	state, draft, items := f.snapshot()
	problems := Validate(draft, items)
	return View{
		State:    state,
		Draft:    draft,
		Totals:   Derive(draft, items),
		Valid:    len(problems) == 0,
		Problems: problems,
	}
}

// Dispatch applies ev. Edits with an unparsable date and submissions of an
// incomplete draft are rejected and leave the form unchanged. The intake is
// called after the form has reset, without holding the form.
func (f *Form) Dispatch(ctx context.Context, ev Event) error {
	if _, ok := ev.(Submit); ok {
		return f.submit(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := ev.(Cancel); ok {
		f.reset()
		return nil
	}

	next, err := applyEdit(f.draft, ev)
	if err != nil {
		return err
	}
	f.draft = next
	f.settle()
	return nil
}

func applyEdit(d Draft, ev Event) (Draft, error) {
	switch e := ev.(type) {
	case SelectItem:
		d.RentalItemID = e.ID
	case SetName:
		d.CustomerName = e.Value
	case SetEmail:
		d.CustomerEmail = e.Value
	case SetPhone:
		d.CustomerPhone = e.Value
	case SetStartDate:
		if _, _, err := ParseDay(e.Value); err != nil {
			return d, err
		}
		d.StartDate = e.Value
	case SetEndDate:
		if _, _, err := ParseDay(e.Value); err != nil {
			return d, err
		}
		d.EndDate = e.Value
	default:
		return d, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return d, nil
}

// settle moves to the state implied by the current draft.
func (f *Form) settle() {
	switch {
	case f.draft.IsZero():
		f.transition(Empty)
	case len(Validate(f.draft, f.items)) == 0:
		f.transition(Valid)
	default:
		f.transition(Editing)
	}
}

func (f *Form) submit(ctx context.Context) error {
	f.mu.Lock()
	sub, err := f.accept()
	f.mu.Unlock()
	if err != nil {
		return err
	}

	if f.intake != nil {
		if err := f.intake.Submit(ctx, sub); err != nil {
			log.Printf("[Booking] Intake failed for booking %s: %v", sub.ID, err)
		}
	}
	return nil
}

// accept turns a Valid draft into a submission and resets the form. Only a
// form settled in Valid may be submitted.
func (f *Form) accept() (Submission, error) {
	f.settle()
	if f.state != Valid {
		return Submission{}, &ValidationError{Reasons: Validate(f.draft, f.items)}
	}

	item, _ := f.items.RentalItem(f.draft.RentalItemID)
	totals := Derive(f.draft, f.items)
	sub := Submission{
		ID:          uuid.New().String(),
		Draft:       f.draft,
		ItemName:    item.Name,
		DailyRate:   item.DailyRate,
		TotalDays:   totals.Days,
		TotalCost:   totals.Cost,
		Status:      StatusPending,
		SubmittedAt: f.now().UTC(),
	}
	f.transition(Submitted)
	f.last = &sub
	f.reset()
	return sub, nil
}

func (f *Form) reset() {
	f.draft = Draft{}
	f.transition(Empty)
}

func (f *Form) transition(to State) {
	from := f.state
	if from == to {
		return
	}
	f.state = to
	for _, fn := range f.transitions {
		fn(from, to)
	}
}
