// Package cargo decodes the newline-delimited JSON stream that cargo prints
// with --message-format=json.
//
// Every line is an envelope tagged by its "reason" field. Only a handful of
// reasons are understood: compiler diagnostics ("compiler-message") carry the
// data this tool annotates, while "compiler-artifact" and "build-finished" are
// used for progress reporting. Any other line, including malformed JSON and
// records that do not match the expected shape, is reported as not decoded
// and must be skipped by the caller.
//
// Decoded values copy what they need out of the input buffer, so a caller may
// reuse the line buffer (as bufio.Scanner does) as soon as Decode returns.
package cargo
