package loader

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/store"
)

// Report describes what a Run did.
type Report struct {
	// Invoked names the loaders whose Load was called, in declaration order.
	Invoked []string

	// Skipped names the loaders whose data was already present.
	Skipped []string

	// Failed names the loaders whose Load returned an error or panicked.
	Failed []string

	// Elapsed is the wall time from the first check to the barrier.
	Elapsed time.Duration
}

// Failure is one failed loader.
type Failure struct {
	Loader string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("loader %q: %v", f.Loader, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Options tunes Run.
type Options struct {
	// Limit caps concurrently running loads. Zero means no limit.
	Limit int
}

// Run invokes every loader whose data is missing from st and waits for all of
// them. Loaders from all groups are merged in order and de-duplicated by name.
//
// The returned error is nil only if every invoked loader succeeded. Otherwise
// it is an *errors.Error with code E200 whose cause joins one Failure per
// failed loader. If ctx is done before the barrier settles, Run returns E201
// wrapping ctx.Err() without waiting further; the store may then hold
// partial data.
func Run(ctx context.Context, st *store.Store, groups ...[]Loader) (Report, error) {
	return RunWith(ctx, st, Options{}, groups...)
}

// RunWith is Run with options.
func RunWith(ctx context.Context, st *store.Store, opts Options, groups ...[]Loader) (Report, error) {
	start := time.Now()
	var report Report

	pending := Dedupe(groups...)
	state := st.State()
	toRun := pending[:0:0]
	for _, l := range pending {
		if l.IsLoaded(state) {
			report.Skipped = append(report.Skipped, l.Name())
			continue
		}
		toRun = append(toRun, l)
		report.Invoked = append(report.Invoked, l.Name())
	}

	if len(toRun) == 0 {
		report.Elapsed = time.Since(start)
		return report, nil
	}

	var (
		mu       sync.Mutex
		failures []Failure
	)

	var g errgroup.Group
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, l := range toRun {
			g.Go(func() error {
				if err := invoke(ctx, st, l); err != nil {
					mu.Lock()
					failures = append(failures, Failure{Loader: l.Name(), Err: err})
					mu.Unlock()
				}
				// Failures are collected, not returned, so one failing
				// loader never hides another.
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		report.Elapsed = time.Since(start)
		return report, errors.New(errors.CodeLoadTimeout).
			WithSubject(strings.Join(report.Invoked, ",")).
			Wrap(ctx.Err())
	}

	report.Elapsed = time.Since(start)
	if len(failures) == 0 {
		return report, nil
	}

	// Report failures in declaration order regardless of completion order.
	order := make(map[string]int, len(toRun))
	for i, l := range toRun {
		order[l.Name()] = i
	}
	slices.SortFunc(failures, func(a, b Failure) int {
		return order[a.Loader] - order[b.Loader]
	})

	errs := make([]error, len(failures))
	for i, f := range failures {
		report.Failed = append(report.Failed, f.Loader)
		errs[i] = f
	}
	return report, errors.New(errors.CodeDataLoad).
		WithSubject(strings.Join(report.Failed, ",")).
		Wrap(stderrors.Join(errs...))
}

// Ensure runs a single loader if its data is missing and waits for it.
func Ensure(ctx context.Context, st *store.Store, l Loader) error {
	_, err := Run(ctx, st, []Loader{l})
	return err
}

// Dedupe merges groups in order, keeping the first loader of each name.
func Dedupe(groups ...[]Loader) []Loader {
	seen := make(map[string]struct{})
	var out []Loader
	for _, group := range groups {
		for _, l := range group {
			if l == nil {
				continue
			}
			if _, ok := seen[l.Name()]; ok {
				continue
			}
			seen[l.Name()] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

// Failures returns the per-loader failures carried by an error from Run.
func Failures(err error) []Failure {
	var joined interface{ Unwrap() []error }
	if !stderrors.As(err, &joined) {
		var f Failure
		if stderrors.As(err, &f) {
			return []Failure{f}
		}
		return nil
	}
	var out []Failure
	for _, e := range joined.Unwrap() {
		var f Failure
		if stderrors.As(e, &f) {
			out = append(out, f)
		}
	}
	return out
}

// invoke calls l.Load, turning a panic into an error.
func invoke(ctx context.Context, st *store.Store, l Loader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return l.Load(ctx, st)
}
