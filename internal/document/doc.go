// Package document converts a note's title and body to and from a minimal
// Office Open XML word-processing document (.docx).
//
// A note document has exactly the shape the rest of Strongroom relies on:
// the first paragraph is the title, styled as Heading 1, and every
// following paragraph belongs to the body. Line breaks inside the body are
// written as <w:br/> so a multi-line body survives a round trip as a single
// paragraph. Documents edited elsewhere are still readable: each extra
// paragraph becomes one line of the body.
//
// The package only works on bytes. Encryption and file handling live in
// internal/notes.
package document
