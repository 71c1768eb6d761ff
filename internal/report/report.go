// Package report assembles report block sequences from stored usage counts.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/lareport/internal/config"
	"github.com/verte-zerg/lareport/internal/model"
)

var (
	// ErrMissingSubjectData means the query layer has nothing stored for a required subject.
	ErrMissingSubjectData = errors.New("missing subject data")
	// ErrUnknownReport is returned for names not in the registry.
	ErrUnknownReport = errors.New("unknown report")
	// ErrUnknownPage is returned for sub-pages a report does not offer.
	ErrUnknownPage = errors.New("unknown report page")
	// ErrInvalidParam is returned when a parameter is missing or malformed.
	ErrInvalidParam = errors.New("invalid parameter")
)

// Parameter names.
const (
	ParamCourse = "course"
	ParamMod    = "mod"
)

// PageAll is the sub-page listing every entry without truncation.
const PageAll = "all"

// Requirement says how a host should treat a declared parameter.
type Requirement int

const (
	// RequiredAlways must be supplied by the user.
	RequiredAlways Requirement = iota
	// RequiredHidden is accepted but derived by navigation rather than shown.
	RequiredHidden
)

func (r Requirement) String() string {
	switch r {
	case RequiredAlways:
		return "required"
	case RequiredHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Parameter declares one report input.
type Parameter struct {
	Name        string
	Type        string
	Requirement Requirement
}

// Params carries raw parameter values keyed by name.
type Params map[string]string

// Course parses the course id parameter.
func (p Params) Course() (int64, error) {
	raw := strings.TrimSpace(p[ParamCourse])
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidParam, ParamCourse)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidParam, ParamCourse, raw)
	}
	return id, nil
}

// Source is the query collaborator the reports read raw counts from.
type Source interface {
	ListActivities(ctx context.Context, courseID int64, mod string) ([]model.UsageRecord, error)
	BrowserOS(ctx context.Context, courseID int64) ([]model.Triple, error)
	ListLocalization(ctx context.Context, courseID int64, field, role string) ([]model.UsageRecord, error)
	ListLearnerHits(ctx context.Context, courseID int64, role string) ([]model.UsageRecord, error)
}

// Report builds the block sequence of one named report.
type Report interface {
	Name() string
	Parameters() []Parameter
	Pages() []string
	Run(ctx context.Context, page string, params Params) ([]model.Block, error)
}

// Validate checks that every always-required parameter is present.
// Hosts call it before Run; reports themselves only parse what they use.
func Validate(r Report, params Params) error {
	for _, p := range r.Parameters() {
		if p.Requirement != RequiredAlways {
			continue
		}
		if strings.TrimSpace(params[p.Name]) == "" {
			return fmt.Errorf("%w: %s is required for %s", ErrInvalidParam, p.Name, r.Name())
		}
	}
	return nil
}

// Registry maps report names to implementations.
type Registry struct {
	reports map[string]Report
}

// NewRegistry registers the built-in reports over a source.
func NewRegistry(src Source, settings config.Settings) *Registry {
	reg := &Registry{reports: map[string]Report{}}
	reg.Register(NewActivities(src, settings))
	reg.Register(NewBrowserOS(src, settings))
	reg.Register(NewLearners(src, settings))
	return reg
}

// Register adds or replaces a report.
func (r *Registry) Register(rep Report) {
	r.reports[rep.Name()] = rep
}

// Get looks up a report by name.
func (r *Registry) Get(name string) (Report, error) {
	rep, ok := r.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownReport, name, strings.Join(r.Names(), ", "))
	}
	return rep, nil
}

// Names returns the registered report names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.reports))
	for name := range r.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run validates params and runs a report page.
func (r *Registry) Run(ctx context.Context, name, page string, params Params) ([]model.Block, error) {
	rep, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if err := Validate(rep, params); err != nil {
		return nil, err
	}
	return rep.Run(ctx, page, params)
}

func checkPage(r Report, page string) error {
	if page == "" {
		return nil
	}
	for _, p := range r.Pages() {
		if p == page {
			return nil
		}
	}
	return fmt.Errorf("%w %q for %s", ErrUnknownPage, page, r.Name())
}

func courseRef(report, page string, courseID int64, extra ...string) *model.Ref {
	params := map[string]string{ParamCourse: strconv.FormatInt(courseID, 10)}
	for i := 0; i+1 < len(extra); i += 2 {
		params[extra[i]] = extra[i+1]
	}
	return &model.Ref{Report: report, Page: page, Params: params}
}
