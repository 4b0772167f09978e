// Package annotation turns compiler diagnostics into GitHub Actions
// workflow commands.
//
// An Annotation is an immutable value built from the primary span of a
// cargo.Diagnostic. Its String form is the literal command the Actions
// runner parses, for example:
//
//	::warning file=src/lib.rs,line=10,endLine=10,col=5,endColumn=8::unused variable
//
// Annotations are totally ordered by Compare (file, line, column, then kind
// with the most severe first) and a Set uses that order to absorb duplicates
// that incremental and workspace builds emit for the same diagnostic.
package annotation
