// Package mapping loads type->source mapping documents from a configured
// directory tree and merges them in the fixed precedence order:
//
//	<root>/mappings/_default/*   lowest
//	<root>/mappings/<index>/*
//	the create-index request's own mappings   highest
//
// A file's type name is everything before its last '.'; a file with no
// extension has no unambiguous type name and is skipped with a warning
// rather than treated as a load failure, since these files are
// operator-provided hints and not a source of truth.
package mapping
