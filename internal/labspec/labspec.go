// Package labspec reads the lab specification shipped inside a lab repository.
//
// The specification is a JSON document at a fixed relative path in the
// working copy. Only its structure is checked: both
// lab.build_requirements.platform.installer and
// lab.build_requirements.platform.build_steps must be present and non-null.
// Their contents are handed to the Action Runner uninterpreted.
package labspec

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// JSONPath expressions of the two required step sets.
const (
	InstallerPath  = "$.lab.build_requirements.platform.installer"
	BuildStepsPath = "$.lab.build_requirements.platform.build_steps"
)

var (
	installerExpr  = jp.MustParseString(InstallerPath)
	buildStepsExpr = jp.MustParseString(BuildStepsPath)
)

// Reason classifies why a lab specification was rejected.
type Reason string

// Rejection reasons.
const (
	ReasonNotFound    Reason = "not-found"
	ReasonParseError  Reason = "parse-error"
	ReasonMissingKeys Reason = "missing-keys"
)

// InvalidError reports a missing or malformed lab specification.
type InvalidError struct {
	Reason Reason
	Path   string
	Detail string
	Err    error
}

func (e *InvalidError) Error() string {
	if e.Reason == ReasonNotFound {
		return "Lab spec file not found"
	}
	return "Lab spec JSON invalid: " + e.Detail
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// LabSpec is a parsed lab specification. Document is the JSON document
// exactly as read.
type LabSpec struct {
	Document any

	installer  any
	buildSteps any
}

// Installer returns lab.build_requirements.platform.installer.
func (s *LabSpec) Installer() any {
	return s.installer
}

// BuildSteps returns lab.build_requirements.platform.build_steps.
func (s *LabSpec) BuildSteps() any {
	return s.buildSteps
}

// Parse decodes data and checks that both step sets are present.
func Parse(data []byte) (*LabSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &InvalidError{Reason: ReasonParseError, Detail: "empty document"}
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, &InvalidError{Reason: ReasonParseError, Detail: err.Error(), Err: err}
	}

	installer, ok := first(installerExpr, doc)
	if !ok {
		return nil, missing(InstallerPath)
	}
	buildSteps, ok := first(buildStepsExpr, doc)
	if !ok {
		return nil, missing(BuildStepsPath)
	}

	return &LabSpec{Document: doc, installer: installer, buildSteps: buildSteps}, nil
}

// ParseFile reads and parses the lab specification at path.
func ParseFile(path string) (*LabSpec, error) {
	// #nosec G304 - path is built from the configured cache root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InvalidError{Reason: ReasonNotFound, Path: path, Err: err}
		}
		return nil, &InvalidError{Reason: ReasonParseError, Path: path, Detail: err.Error(), Err: err}
	}

	spec, err := Parse(data)
	if err != nil {
		var ierr *InvalidError
		if errors.As(err, &ierr) {
			ierr.Path = path
		}
		return nil, err
	}
	return spec, nil
}

// Loader locates and parses lab specifications inside working copies.
type Loader struct {
	root string
	rel  string
	log  logr.Logger
}

// NewLoader creates a Loader for working copies under root, reading the
// specification at rel inside each of them.
func NewLoader(root, rel string, log logr.Logger) *Loader {
	return &Loader{root: root, rel: rel, log: log.WithName("labspec")}
}

// Path returns the specification path for the working copy repo.
func (l *Loader) Path(repo string) string {
	return filepath.Join(l.root, repo, l.rel)
}

// Load reads the specification of the working copy repo.
func (l *Loader) Load(repo string) (*LabSpec, error) {
	path := l.Path(repo)
	l.log.V(1).Info("Reading lab spec", "repo", repo, "path", path)

	spec, err := ParseFile(path)
	if err != nil {
		reason := ""
		var ierr *InvalidError
		if errors.As(err, &ierr) {
			reason = string(ierr.Reason)
		}
		l.log.Error(err, "Lab spec rejected", "repo", repo, "path", path, "reason", reason)
		return nil, err
	}
	return spec, nil
}

func first(expr jp.Expr, doc any) (any, bool) {
	results := expr.Get(doc)
	if len(results) == 0 || results[0] == nil {
		return nil, false
	}
	return results[0], true
}

func missing(path string) error {
	return &InvalidError{
		Reason: ReasonMissingKeys,
		Detail: fmt.Sprintf("missing required key %s", path),
	}
}
