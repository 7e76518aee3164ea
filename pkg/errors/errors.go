package errors

import (
	"fmt"
	"strings"
)

// InvalidReferenceError indicates a requested item reference that is neither
// a valid catalog name, a local manifest path, nor an allowed URL.
type InvalidReferenceError struct {
	Ref     string
	Message string
}

// NewInvalidReference constructs an InvalidReferenceError.
func NewInvalidReference(ref, message string) error {
	return &InvalidReferenceError{Ref: ref, Message: message}
}

func (e *InvalidReferenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid reference %q: %s", e.Ref, e.Message)
}

// FieldViolation describes a single failed field in a schema check.
type FieldViolation struct {
	Field   string
	Message string
}

// SchemaViolationError captures a structural validation failure at a trust
// boundary, with a field-by-field breakdown.
type SchemaViolationError struct {
	Entity     string
	Violations []FieldViolation
	Err        error
}

// NewSchemaViolation constructs a SchemaViolationError.
func NewSchemaViolation(entity string, violations []FieldViolation, err error) error {
	return &SchemaViolationError{Entity: entity, Violations: violations, Err: err}
}

func (e *SchemaViolationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Violations) == 0 {
		return fmt.Sprintf("schema violation in %s", e.Entity)
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("schema violation in %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Unwrap exposes the underlying error.
func (e *SchemaViolationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UntrustedResponseError indicates a fetch that was refused before or after
// dispatch: disallowed host or path, oversized body, or wrong content type.
type UntrustedResponseError struct {
	URL    string
	Reason string
}

// NewUntrustedResponse constructs an UntrustedResponseError.
func NewUntrustedResponse(url, reason string) error {
	return &UntrustedResponseError{URL: url, Reason: reason}
}

func (e *UntrustedResponseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("untrusted response from %s: %s", e.URL, e.Reason)
}

// NotFoundError maps a 404 from the catalog.
type NotFoundError struct {
	URL string
}

// NewNotFound constructs a NotFoundError.
func NewNotFound(url string) error {
	return &NotFoundError{URL: url}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("not found: %s", e.URL)
}

// UnauthorizedError maps a 401 from the catalog.
type UnauthorizedError struct {
	URL string
}

// NewUnauthorized constructs an UnauthorizedError.
func NewUnauthorized(url string) error {
	return &UnauthorizedError{URL: url}
}

func (e *UnauthorizedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unauthorized: %s", e.URL)
}

// ForbiddenError maps a 403 from the catalog.
type ForbiddenError struct {
	URL string
}

// NewForbidden constructs a ForbiddenError.
func NewForbidden(url string) error {
	return &ForbiddenError{URL: url}
}

func (e *ForbiddenError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("forbidden: %s", e.URL)
}

// EmptyComponentListError indicates an add request that named no components.
type EmptyComponentListError struct{}

// NewEmptyComponentList constructs an EmptyComponentListError.
func NewEmptyComponentList() error {
	return &EmptyComponentListError{}
}

func (e *EmptyComponentListError) Error() string {
	return "no components requested"
}

// MissingProjectError indicates a target directory with no package manifest.
type MissingProjectError struct {
	Dir string
}

// NewMissingProject constructs a MissingProjectError.
func NewMissingProject(dir string) error {
	return &MissingProjectError{Dir: dir}
}

func (e *MissingProjectError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("no package.json found in %s; run inside an existing project or bootstrap one first", e.Dir)
}

// ConfigExistsError indicates project configuration already present and force
// not requested.
type ConfigExistsError struct {
	Path string
}

// NewConfigExists constructs a ConfigExistsError.
func NewConfigExists(path string) error {
	return &ConfigExistsError{Path: path}
}

func (e *ConfigExistsError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("project configuration already exists at %s; pass force to overwrite", e.Path)
}

// StyleFrameworkNotConfiguredError indicates that project introspection could
// not locate the style-framework entry points it needs.
type StyleFrameworkNotConfiguredError struct {
	Dir    string
	Detail string
}

// NewStyleFrameworkNotConfigured constructs a StyleFrameworkNotConfiguredError.
func NewStyleFrameworkNotConfigured(dir, detail string) error {
	return &StyleFrameworkNotConfiguredError{Dir: dir, Detail: detail}
}

func (e *StyleFrameworkNotConfiguredError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("style framework is not configured in %s: %s", e.Dir, e.Detail)
}

// ImportAliasMissingError indicates no resolvable import alias in the
// project's compiler configuration.
type ImportAliasMissingError struct {
	Dir string
}

// NewImportAliasMissing constructs an ImportAliasMissingError.
func NewImportAliasMissing(dir string) error {
	return &ImportAliasMissingError{Dir: dir}
}

func (e *ImportAliasMissingError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("no import alias found in %s; add a paths entry to tsconfig.json", e.Dir)
}

// DeprecatedComponentError indicates a requested item that has been retired
// in favor of a replacement.
type DeprecatedComponentError struct {
	Name        string
	Replacement string
}

// NewDeprecatedComponent constructs a DeprecatedComponentError.
func NewDeprecatedComponent(name, replacement string) error {
	return &DeprecatedComponentError{Name: name, Replacement: replacement}
}

func (e *DeprecatedComponentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s is deprecated; use %s instead", e.Name, e.Replacement)
}

// PathOutsideWorkspaceError indicates a path that escapes the workspace
// boundary, before or after symlink resolution.
type PathOutsideWorkspaceError struct {
	Path string
	Root string
}

// NewPathOutsideWorkspace constructs a PathOutsideWorkspaceError.
func NewPathOutsideWorkspace(path, root string) error {
	return &PathOutsideWorkspaceError{Path: path, Root: root}
}

func (e *PathOutsideWorkspaceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("path %q resolves outside workspace %s", e.Path, e.Root)
}

// TooManyConcurrentOperationsError indicates the mutating-operation ceiling
// was hit; the request is rejected, not queued.
type TooManyConcurrentOperationsError struct {
	Limit int64
}

// NewTooManyConcurrentOperations constructs a TooManyConcurrentOperationsError.
func NewTooManyConcurrentOperations(limit int64) error {
	return &TooManyConcurrentOperationsError{Limit: limit}
}

func (e *TooManyConcurrentOperationsError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("too many concurrent operations (limit %d); retry once an operation completes", e.Limit)
}

// CommandExecutionError represents a package-manager subprocess failure.
type CommandExecutionError struct {
	Command string
	Output  string
	Err     error
}

// NewCommandExecution constructs a CommandExecutionError.
func NewCommandExecution(command, output string, err error) error {
	return &CommandExecutionError{Command: command, Output: output, Err: err}
}

func (e *CommandExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Output != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap exposes the root error.
func (e *CommandExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
