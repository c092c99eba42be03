package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/aurpkg/pypup/internal/artifact"
	"github.com/aurpkg/pypup/internal/common/logger"
	"github.com/aurpkg/pypup/internal/listing"
	"github.com/aurpkg/pypup/internal/pipeline"
	"github.com/aurpkg/pypup/internal/pypi"
	"github.com/aurpkg/pypup/internal/recipe"
	"github.com/aurpkg/pypup/internal/resolve"
)

// EcosystemToken must appear in a recipe for the package to be
// considered part of the target ecosystem
const EcosystemToken = "python"

// Index is the upstream package index as seen by the loop
type Index interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	ArtifactsFor(ctx context.Context, name, version string) ([]artifact.Artifact, error)
}

// Checksummer resolves an artifact's content checksum
type Checksummer interface {
	Checksum(ctx context.Context, a artifact.Artifact) (string, error)
}

// Workspace provides package checkouts and their build logs
type Workspace interface {
	Ensure(ctx context.Context, pkg string) (string, error)
	ReadLogs(dir string) string
}

// Failure is one package whose rebuild attempt did not succeed
type Failure struct {
	Package string
	Version string
	Err     error
	// Log is the captured toolchain output, when any was produced
	Log string
}

// Outcome accumulates the results of one reconciliation run.
// It is an explicit value owned by the loop; there is no global state.
type Outcome struct {
	// Seen counts every package discovered in the listing
	Seen int
	// Matched counts packages found on the index
	Matched int
	// RollingSkipped counts VCS packages excluded up front
	RollingSkipped int
	// OtherSkipped counts non-ecosystem packages and maintainer opt-outs
	OtherSkipped int
	// Failures lists failed rebuild attempts in processing order
	Failures []Failure
}

// Loop reconciles the maintainer's local packages against the index,
// one package at a time. All collaborators are injected; the loop
// itself performs no I/O beyond what they provide.
type Loop struct {
	Listing   listing.Source
	Resolver  *resolve.Resolver
	Index     Index
	Sums      Checksummer
	Workspace Workspace
	Pipeline  pipeline.Pipeline
	Compare   VersionComparer
	// DryRun reports what would change without mutating recipes or
	// invoking the build pipeline
	DryRun bool
}

// Run processes every listed package sequentially and returns the
// accumulated outcome. Only a listing failure is fatal; everything
// else is recorded and the run continues.
func (l *Loop) Run(ctx context.Context) (*Outcome, error) {
	packages, err := l.Listing.List(ctx)
	if err != nil {
		return nil, err
	}

	cmp := l.Compare
	if cmp == nil {
		cmp = TokenComparer{}
	}

	outcome := &Outcome{}
	for _, pkg := range packages {
		l.reconcile(ctx, pkg, cmp, outcome)
	}

	return outcome, nil
}

// reconcile advances one package through the state machine
func (l *Loop) reconcile(ctx context.Context, pkg listing.Package, cmp VersionComparer, outcome *Outcome) {
	outcome.Seen++

	res := l.Resolver.Resolve(pkg.Name)
	if res.Rolling {
		logger.Debug("%s: rolling package, skipped", pkg.Name)
		outcome.RollingSkipped++
		return
	}
	if res.Skip {
		logger.Debug("%s: skipped by maintainer override", pkg.Name)
		outcome.OtherSkipped++
		return
	}

	dir, err := l.Workspace.Ensure(ctx, pkg.Name)
	if err != nil {
		l.fail(outcome, pkg.Name, "", err, "")
		return
	}

	rec, err := recipe.Load(dir)
	if err != nil {
		l.fail(outcome, pkg.Name, "", err, "")
		return
	}
	if !rec.Mentions(EcosystemToken) {
		logger.Debug("%s: not a %s package, skipped", pkg.Name, EcosystemToken)
		outcome.OtherSkipped++
		return
	}

	upstream, err := l.Index.LatestVersion(ctx, res.Upstream)
	if err != nil {
		var notFound *pypi.NotFoundError
		if errors.As(err, &notFound) {
			logger.Info("%s: no match on the index for %q, check the name or add a casing override",
				pkg.Name, res.Upstream)
			return
		}
		l.fail(outcome, pkg.Name, "", err, "")
		return
	}
	outcome.Matched++

	if !cmp.Valid(upstream) {
		logger.Warn("%s: upstream version %q does not look like a release, skipped", pkg.Name, upstream)
		return
	}
	if !cmp.Newer(upstream, pkg.Version) {
		logger.Debug("%s: %s is up to date", pkg.Name, pkg.Version)
		return
	}

	logger.Info("%s: %s → %s", pkg.Name, pkg.Version, upstream)
	l.update(ctx, pkg, res.Upstream, upstream, rec, dir, outcome)
}

// update fetches the release artifact and rewrites and rebuilds the
// package
func (l *Loop) update(ctx context.Context, pkg listing.Package, upstreamName, version string, rec *recipe.Recipe, dir string, outcome *Outcome) {
	candidates, err := l.Index.ArtifactsFor(ctx, upstreamName, version)
	if err != nil {
		l.fail(outcome, pkg.Name, version, err, "")
		return
	}

	selected, ok := artifact.Select(candidates)
	if !ok {
		l.fail(outcome, pkg.Name, version,
			fmt.Errorf("no download artifact declared for %s %s", upstreamName, version), "")
		return
	}

	checksum, err := l.Sums.Checksum(ctx, selected)
	if err != nil {
		l.fail(outcome, pkg.Name, version, err, "")
		return
	}

	if l.DryRun {
		logger.Info("%s: dry run, recipe and build skipped", pkg.Name)
		return
	}

	rec.SetUpstream(version, checksum)
	if err := rec.Save(); err != nil {
		l.fail(outcome, pkg.Name, version, err, "")
		return
	}

	if err := l.Pipeline.Run(ctx, dir); err != nil {
		log := l.Workspace.ReadLogs(dir)
		var runErr *pipeline.RunError
		if log == "" && errors.As(err, &runErr) {
			log = runErr.Log
		}
		l.fail(outcome, pkg.Name, version, err, log)
	}
}

// fail records a non-fatal per-package failure and logs it
func (l *Loop) fail(outcome *Outcome, pkg, version string, err error, log string) {
	logger.Error("%s: %v", pkg, err)
	outcome.Failures = append(outcome.Failures, Failure{
		Package: pkg,
		Version: version,
		Err:     err,
		Log:     log,
	})
}
