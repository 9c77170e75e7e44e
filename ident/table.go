package ident

import (
	"fmt"

	"github.com/viant/fsanet/lang"
)

// binding is one name's resolution state within whichever scope map it
// lives in.
type binding struct {
	class    Class
	status   Status
	declSpan lang.Location
	hasDecl  bool
	useSpans []lang.Location
	index    int
	hasIndex bool
}

func (b *binding) originSpan() lang.Location {
	if b.hasDecl {
		return b.declSpan
	}
	if len(b.useSpans) > 0 {
		return b.useSpans[0]
	}
	return lang.Location{}
}

// counterKey normalizes Begin to State so a state's dense index survives
// coalescing regardless of which class first created its binding.
func counterKey(c Class) Class {
	if c == Begin {
		return State
	}
	return c
}

// scope is a flat name -> binding namespace with its own per-class dense
// index counters.
type scope struct {
	bindings map[string]*binding
	counters map[Class]int
	order    map[Class][]string
}

func newScope() *scope {
	return &scope{bindings: map[string]*binding{}, counters: map[Class]int{}, order: map[Class][]string{}}
}

// networkEntry is the flat per-network namespace shared by automata
// names, link/event/obs/rel-label names, and (critically) every
// automaton's state and transition names — §4.1 requires that a state or
// transition name never collide with any sibling automaton's names, so
// all automata within one network resolve against the same scope.
type networkEntry struct {
	name          string
	span          lang.Location
	scope         *scope
	automata      map[string]*automataEntry
	automataOrder []string
}

// automataEntry tracks the per-automaton dense index counters for State
// and Transition names; the bindings themselves live in the owning
// network's shared scope.
type automataEntry struct {
	name     string
	span     lang.Location
	network  *networkEntry
	counters map[Class]int
	order    map[Class][]string
}

type labelUse struct {
	name string
	span lang.Location
}

type pendingRequest struct {
	requestName string
	networkName string
	networkSpan lang.Location
	obsUses     []labelUse
	relUses     []labelUse
}

// Table is the name table of §4.1: a scope chain resolver over the
// closed set of identifier classes, enforcing declare-before-use,
// redefinition and cross-reference rules, and assigning the dense
// per-scope indices the compiler relies on.
//
// The public contract in spec.md is functional; this implementation
// backs it with in-place mutation and move-on-return (§9 design notes):
// every mutator is a method on *Table that mutates it in place and
// returns only an error, so a caller that discards the table on error
// never observes a half-built one via any other reference to it.
type Table struct {
	global   *scope
	networks map[string]*networkEntry
	netOrder []string

	curNetwork  *networkEntry
	curAutomata *automataEntry
	curRequest  *pendingRequest

	pending []*pendingRequest
}

// NewTable returns an empty name table.
func NewTable() *Table {
	return &Table{global: newScope(), networks: map[string]*networkEntry{}}
}

func (t *Table) resolve(bindings map[string]*binding, counters map[Class]int, order map[Class][]string, name string, span lang.Location, class Class, incoming Status) (*binding, error) {
	b, existed := bindings[name]
	if !existed {
		b = &binding{class: class}
		bindings[name] = b
	}

	merged, ok := mergeClass(b.class, class)
	if !ok {
		return b, &RedefinitionError{Name: name, OrigSpan: b.originSpan(), RidefSpan: span, OrigClass: b.class, RidefClass: class}
	}
	b.class = merged

	if !b.hasIndex {
		key := counterKey(class)
		b.index = counters[key]
		counters[key]++
		b.hasIndex = true
		order[key] = append(order[key], name)
	}

	if incoming == Defined {
		next, isRedef := nextStatus(b.status, Defined)
		if isRedef {
			return b, &RedefinitionError{Name: name, OrigSpan: b.originSpan(), RidefSpan: span, OrigClass: b.class, RidefClass: class}
		}
		if !b.hasDecl {
			b.declSpan = span
			b.hasDecl = true
		}
		b.status = next
		return b, nil
	}

	b.useSpans = append(b.useSpans, span)
	next, _ := nextStatus(b.status, Undefined)
	b.status = next
	return b, nil
}

// -----------------------------------------------------------------------
// Scope control
// -----------------------------------------------------------------------

// EnterNetwork declares name as a Network and pushes the network scope.
func (t *Table) EnterNetwork(name string, span lang.Location) error {
	if t.curNetwork != nil {
		return fmt.Errorf("ident: cannot enter network %q while already inside network %q", name, t.curNetwork.name)
	}
	if _, err := t.resolve(t.global.bindings, t.global.counters, t.global.order, name, span, Network, Defined); err != nil {
		return err
	}
	ne := t.networks[name]
	if ne == nil {
		ne = &networkEntry{name: name, span: span, scope: newScope(), automata: map[string]*automataEntry{}}
		t.networks[name] = ne
		t.netOrder = append(t.netOrder, name)
	}
	t.curNetwork = ne
	return nil
}

// ExitNetwork pops the network scope.
func (t *Table) ExitNetwork() { t.curNetwork = nil }

// EnterAutomata declares name as an Automata within the current network
// and pushes the automaton scope.
func (t *Table) EnterAutomata(name string, span lang.Location) error {
	if t.curNetwork == nil {
		return fmt.Errorf("ident: EnterAutomata outside a network scope")
	}
	if t.curAutomata != nil {
		return fmt.Errorf("ident: cannot enter automata %q while already inside automata %q", name, t.curAutomata.name)
	}
	ns := t.curNetwork.scope
	if _, err := t.resolve(ns.bindings, ns.counters, ns.order, name, span, Automata, Defined); err != nil {
		return err
	}
	ae := t.curNetwork.automata[name]
	if ae == nil {
		ae = &automataEntry{name: name, span: span, network: t.curNetwork, counters: map[Class]int{}, order: map[Class][]string{}}
		t.curNetwork.automata[name] = ae
		t.curNetwork.automataOrder = append(t.curNetwork.automataOrder, name)
	}
	t.curAutomata = ae
	return nil
}

// ExitAutomata pops the automaton scope.
func (t *Table) ExitAutomata() { t.curAutomata = nil }

// InsertRequest declares name as a Request and begins collecting the
// deferred validations (network reference, label references) resolved
// at Validate.
func (t *Table) InsertRequest(name string, span lang.Location, networkName string, networkSpan lang.Location) error {
	if _, err := t.resolve(t.global.bindings, t.global.counters, t.global.order, name, span, Request, Defined); err != nil {
		return err
	}
	if _, err := t.resolve(t.global.bindings, t.global.counters, t.global.order, networkName, networkSpan, Network, Undefined); err != nil {
		return err
	}
	t.curRequest = &pendingRequest{requestName: name, networkName: networkName, networkSpan: networkSpan}
	return nil
}

// ExitRequest closes the current request, queuing its deferred label
// validations.
func (t *Table) ExitRequest() {
	if t.curRequest != nil {
		t.pending = append(t.pending, t.curRequest)
		t.curRequest = nil
	}
}

// -----------------------------------------------------------------------
// Network-scope declarations
// -----------------------------------------------------------------------

func (t *Table) requireNetwork() (*scope, error) {
	if t.curNetwork == nil {
		return nil, fmt.Errorf("ident: not inside a network scope")
	}
	return t.curNetwork.scope, nil
}

// DeclareLink declares a link name.
func (t *Table) DeclareLink(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, Link, Defined)
	return err
}

// DeclareEvent declares an event name.
func (t *Table) DeclareEvent(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, Event, Defined)
	return err
}

// DeclareObsLabel declares an observation-label name.
func (t *Table) DeclareObsLabel(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, ObsLabel, Defined)
	return err
}

// DeclareRelLabel declares a relevance-label name.
func (t *Table) DeclareRelLabel(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, RelLabel, Defined)
	return err
}

// AddAutomataUse records a use of an automaton name (e.g. as a link's
// source or destination), tolerating forward reference.
func (t *Table) AddAutomataUse(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, Automata, Undefined)
	return err
}

// AddEventUse records a use of an event name.
func (t *Table) AddEventUse(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, Event, Undefined)
	return err
}

// AddLinkUse records a use of a link name.
func (t *Table) AddLinkUse(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, Link, Undefined)
	return err
}

// AddObsLabelUse records a use of an observation-label name (e.g. on a
// transition).
func (t *Table) AddObsLabelUse(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, ObsLabel, Undefined)
	return err
}

// AddRelLabelUse records a use of a relevance-label name (e.g. on a
// transition).
func (t *Table) AddRelLabelUse(name string, span lang.Location) error {
	ns, err := t.requireNetwork()
	if err != nil {
		return err
	}
	_, err = t.resolve(ns.bindings, ns.counters, ns.order, name, span, RelLabel, Undefined)
	return err
}

// -----------------------------------------------------------------------
// Automata-scope declarations
// -----------------------------------------------------------------------

func (t *Table) requireAutomata() (*networkEntry, *automataEntry, error) {
	if t.curNetwork == nil || t.curAutomata == nil {
		return nil, nil, fmt.Errorf("ident: not inside an automaton scope")
	}
	return t.curNetwork, t.curAutomata, nil
}

// DeclareState declares a plain (non-initial) state name.
func (t *Table) DeclareState(name string, span lang.Location) error {
	ne, ae, err := t.requireAutomata()
	if err != nil {
		return err
	}
	_, err = t.resolve(ne.scope.bindings, ae.counters, ae.order, name, span, State, Defined)
	return err
}

// DeclareBeginState declares a state additionally marked as the
// automaton's initial state.
func (t *Table) DeclareBeginState(name string, span lang.Location) error {
	ne, ae, err := t.requireAutomata()
	if err != nil {
		return err
	}
	_, err = t.resolve(ne.scope.bindings, ae.counters, ae.order, name, span, Begin, Defined)
	return err
}

// AddStateUse records a use of a state name (e.g. as a transition's
// source or destination), tolerating forward reference.
func (t *Table) AddStateUse(name string, span lang.Location) error {
	ne, ae, err := t.requireAutomata()
	if err != nil {
		return err
	}
	_, err = t.resolve(ne.scope.bindings, ae.counters, ae.order, name, span, State, Undefined)
	return err
}

// DeclareTransition declares a transition name.
func (t *Table) DeclareTransition(name string, span lang.Location) error {
	ne, ae, err := t.requireAutomata()
	if err != nil {
		return err
	}
	_, err = t.resolve(ne.scope.bindings, ae.counters, ae.order, name, span, Transition, Defined)
	return err
}

// -----------------------------------------------------------------------
// Request-scope uses
// -----------------------------------------------------------------------

// AddRequestObsLabelUse records that the current request's linspace
// command references an observation-label name, validated against the
// request's network once the whole source has been traversed.
func (t *Table) AddRequestObsLabelUse(name string, span lang.Location) error {
	if t.curRequest == nil {
		return fmt.Errorf("ident: not inside a request scope")
	}
	t.curRequest.obsUses = append(t.curRequest.obsUses, labelUse{name: name, span: span})
	return nil
}

// AddRequestRelLabelUse records that the current request's fresh
// diagnosis command references a relevance-label name.
func (t *Table) AddRequestRelLabelUse(name string, span lang.Location) error {
	if t.curRequest == nil {
		return fmt.Errorf("ident: not inside a request scope")
	}
	t.curRequest.relUses = append(t.curRequest.relUses, labelUse{name: name, span: span})
	return nil
}

// -----------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------

// Validate runs the three sweeps of §4.1: every name's status must be
// Used or Defined; every automaton must have exactly one Begin state;
// every request's network and label references must resolve. It
// aggregates every failure instead of stopping at the first, so a host
// diagnostic renderer can report them all at once.
func (t *Table) Validate() error {
	var errs []error

	errs = append(errs, sweepUndefined(t.global, t.global.order)...)
	for _, name := range t.netOrder {
		ne := t.networks[name]
		errs = append(errs, sweepUndefined(ne.scope, ne.scope.order)...)
		for _, autoName := range ne.automataOrder {
			ae := ne.automata[autoName]
			// State/Transition bindings live in the shared network scope
			// but their first-seen order is tracked per automaton, so the
			// network-level sweep above never visits them.
			errs = append(errs, sweepUndefined(ne.scope, ae.order)...)
			errs = append(errs, t.checkBegin(ne, ae)...)
		}
	}

	for _, pr := range t.pending {
		errs = append(errs, t.checkPendingRequest(pr)...)
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}

func sweepUndefined(s *scope, order map[Class][]string) []error {
	var errs []error
	for _, names := range order {
		for _, name := range names {
			b := s.bindings[name]
			if b.status == Undefined {
				if b.class == Network {
					for _, span := range b.useSpans {
						errs = append(errs, &UndefinedNetworkError{Name: name, Span: span})
					}
					continue
				}
				span := b.originSpan()
				errs = append(errs, &UndefinedNameError{Name: name, Span: span})
			}
		}
	}
	return errs
}

func (t *Table) checkBegin(ne *networkEntry, ae *automataEntry) []error {
	var begins []string
	for _, name := range ae.order[State] {
		if ne.scope.bindings[name].class == Begin {
			begins = append(begins, name)
		}
	}
	switch len(begins) {
	case 1:
		return nil
	case 0:
		return []error{&BeginStateError{Automaton: ae.name, Span: ae.span, Kind: NoBeginState}}
	default:
		return []error{&BeginStateError{Automaton: ae.name, Span: ae.span, Kind: MultipleBeginState, Names: begins}}
	}
}

func (t *Table) checkPendingRequest(pr *pendingRequest) []error {
	ne := t.networks[pr.networkName]
	if ne == nil {
		// Already reported by the global Undefined-network sweep.
		return nil
	}
	var errs []error
	for _, use := range pr.obsUses {
		errs = append(errs, checkLabel(ne.scope, use, ObsLabel)...)
	}
	for _, use := range pr.relUses {
		errs = append(errs, checkLabel(ne.scope, use, RelLabel)...)
	}
	return errs
}

func checkLabel(s *scope, use labelUse, want Class) []error {
	b, ok := s.bindings[use.name]
	if !ok {
		return []error{&UndefinedLabelError{Name: use.name, Class: want, Span: use.span}}
	}
	if b.class != want {
		return []error{&MismatchedTypeError{Name: use.name, Expected: want, Actual: b.class, Span: use.span}}
	}
	return nil
}

// -----------------------------------------------------------------------
// Index export — queried by the compiler after a successful Validate.
// -----------------------------------------------------------------------

// Networks returns declared network names in first-occurrence (dense
// index) order.
func (t *Table) Networks() []string { return append([]string(nil), t.netOrder...) }

// NetworkIndex returns the dense index assigned to a network name.
func (t *Table) NetworkIndex(name string) (int, bool) {
	b, ok := t.global.bindings[name]
	if !ok {
		return 0, false
	}
	return b.index, true
}

// Automata returns a network's automaton names in index order.
func (t *Table) Automata(network string) []string {
	ne := t.networks[network]
	if ne == nil {
		return nil
	}
	return append([]string(nil), ne.automataOrder...)
}

// Links returns a network's link names in index order.
func (t *Table) Links(network string) []string { return t.networkOrderOf(network, Link) }

// Events returns a network's event names in index order.
func (t *Table) Events(network string) []string { return t.networkOrderOf(network, Event) }

// ObsLabels returns a network's observation-label names in index order.
func (t *Table) ObsLabels(network string) []string { return t.networkOrderOf(network, ObsLabel) }

// RelLabels returns a network's relevance-label names in index order.
func (t *Table) RelLabels(network string) []string { return t.networkOrderOf(network, RelLabel) }

func (t *Table) networkOrderOf(network string, class Class) []string {
	ne := t.networks[network]
	if ne == nil {
		return nil
	}
	return append([]string(nil), ne.scope.order[class]...)
}

// NetworkScopeIndex returns the dense index assigned to a name declared
// or used anywhere in a network's flat namespace (automata, links,
// events, labels, states, transitions).
func (t *Table) NetworkScopeIndex(network, name string) (int, bool) {
	ne := t.networks[network]
	if ne == nil {
		return 0, false
	}
	b, ok := ne.scope.bindings[name]
	if !ok {
		return 0, false
	}
	return b.index, true
}

// States returns an automaton's state names in index order.
func (t *Table) States(network, automaton string) []string {
	return t.automataOrderOf(network, automaton, State)
}

// Transitions returns an automaton's transition names in index order.
func (t *Table) Transitions(network, automaton string) []string {
	return t.automataOrderOf(network, automaton, Transition)
}

// BeginState returns the name of an automaton's initial state.
func (t *Table) BeginState(network, automaton string) (string, bool) {
	ne := t.networks[network]
	if ne == nil {
		return "", false
	}
	ae := ne.automata[automaton]
	if ae == nil {
		return "", false
	}
	for _, name := range ae.order[State] {
		if ne.scope.bindings[name].class == Begin {
			return name, true
		}
	}
	return "", false
}

func (t *Table) automataOrderOf(network, automaton string, class Class) []string {
	ne := t.networks[network]
	if ne == nil {
		return nil
	}
	ae := ne.automata[automaton]
	if ae == nil {
		return nil
	}
	return append([]string(nil), ae.order[class]...)
}
