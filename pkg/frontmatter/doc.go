// Package frontmatter reads, writes, and surgically edits the YAML
// frontmatter block of Markdown documents.
//
// Frontmatter is delimited by lines containing only "---" at the start of
// the document and at the start of a later line. The content between the
// delimiters is YAML. Both Unix (LF) and Windows (CRLF) line endings are
// handled.
//
// [ParseHeader] decodes the block into a caller-supplied type and treats a
// missing block as empty metadata. [Format] renders metadata plus a body
// into a complete document.
//
// # Field Surgery
//
// [SetField] and [RemoveField] edit one flat scalar field in place without
// reserializing the rest of the block, so user formatting, comments, and
// unmodeled fields survive byte for byte. Toggling a skill's disabled flag
// uses this path rather than a parse/format round trip.
package frontmatter
