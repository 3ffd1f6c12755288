package metadata

import "strings"

// NameErrorReason identifies why a candidate index name was rejected. Order
// of the constants matches the fixed check order in ValidateName so that
// the reported reason is deterministic (spec.md §4.2).
type NameErrorReason string

const (
	ReasonAlreadyExists              NameErrorReason = "already_exists"
	ReasonWhitespaceForbidden        NameErrorReason = "whitespace_forbidden"
	ReasonCommaForbidden             NameErrorReason = "comma_forbidden"
	ReasonHashForbidden              NameErrorReason = "hash_forbidden"
	ReasonLeadingUnderscoreForbidden NameErrorReason = "leading_underscore_forbidden"
	ReasonMustBeLowercase            NameErrorReason = "must_be_lowercase"
	ReasonIllegalFilesystemChar      NameErrorReason = "illegal_filesystem_char"
	ReasonCollidesWithAlias          NameErrorReason = "collides_with_alias"
)

// NameError reports a rejected index name and why.
type NameError struct {
	Name   string
	Reason NameErrorReason
}

func (e *NameError) Error() string {
	return "invalid index name \"" + e.Name + "\": " + string(e.Reason)
}

const illegalFilesystemChars = `\/*?"<>|:`

// ValidateName is the pure predicate of spec.md §4.2: is a candidate index
// name admissible? Checks run in the fixed order listed there so the same
// input always produces the same NameErrorReason (spec.md §8 invariant 6).
// Existence and alias-collision are not checked here — those require
// cluster state and are performed by the coordinator's pre-flight step
// (spec.md §4.6 step 1) before and after this call respectively.
func ValidateName(name string) *NameError {
	if name == "" {
		return &NameError{Name: name, Reason: ReasonWhitespaceForbidden}
	}
	if strings.ContainsAny(name, " \t\n") {
		return &NameError{Name: name, Reason: ReasonWhitespaceForbidden}
	}
	if strings.Contains(name, ",") {
		return &NameError{Name: name, Reason: ReasonCommaForbidden}
	}
	if strings.Contains(name, "#") {
		return &NameError{Name: name, Reason: ReasonHashForbidden}
	}
	if strings.HasPrefix(name, "_") {
		return &NameError{Name: name, Reason: ReasonLeadingUnderscoreForbidden}
	}
	if strings.ToLower(name) != name {
		return &NameError{Name: name, Reason: ReasonMustBeLowercase}
	}
	if strings.ContainsAny(name, illegalFilesystemChars) {
		return &NameError{Name: name, Reason: ReasonIllegalFilesystemChar}
	}
	return nil
}
