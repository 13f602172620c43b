package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

const (
	documentPart = "word/document.xml"

	// maxPartSize bounds how much of document.xml is inflated when decoding.
	maxPartSize = 64 << 20
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>` +
	`<w:pPr><w:keepNext/><w:spacing w:before="480"/><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
	`</w:styles>`

const (
	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr/></w:body></w:document>`
)

// Encode builds a .docx holding title as a Heading 1 paragraph followed by
// body as a single paragraph.
//
// Returns ErrUnsupportedText if either holds invalid UTF-8 or a character
// XML cannot represent, such as a control character other than tab, LF, or CR.
func Encode(title, body string) ([]byte, error) {
	var doc bytes.Buffer
	doc.WriteString(documentHead)
	if err := writeParagraph(&doc, "Heading1", title); err != nil {
		return nil, err
	}
	if err := writeParagraph(&doc, "", body); err != nil {
		return nil, err
	}
	doc.WriteString(documentTail)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{documentPart, doc.Bytes()},
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	modified := time.Now()
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish document: %w", err)
	}

	return out.Bytes(), nil
}

func writeParagraph(buf *bytes.Buffer, style, text string) error {
	if err := checkText(text); err != nil {
		return err
	}

	buf.WriteString("<w:p>")
	if style != "" {
		buf.WriteString(`<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	}
	buf.WriteString("<w:r>")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			buf.WriteString("<w:br/>")
		}
		for j, segment := range strings.Split(line, "\t") {
			if j > 0 {
				buf.WriteString("<w:tab/>")
			}
			if segment == "" {
				continue
			}
			buf.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(buf, []byte(segment)); err != nil {
				return fmt.Errorf("failed to escape text: %w", err)
			}
			buf.WriteString("</w:t>")
		}
	}

	buf.WriteString("</w:r></w:p>")
	return nil
}

// checkText rejects text that XML 1.0 cannot carry. xml.EscapeText would
// otherwise replace it with U+FFFD.
func checkText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: invalid UTF-8", serrors.ErrUnsupportedText)
	}
	for i, r := range text {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U at byte %d", serrors.ErrUnsupportedText, r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// Decode reads a .docx and returns the text of its first paragraph as the
// title and the remaining paragraphs joined by newlines as the body. A
// document with no paragraphs has an empty title and body.
func Decode(data []byte) (title, body string, err error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", serrors.ErrInvalidDocument, err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", "", fmt.Errorf("%w: missing %s", serrors.ErrInvalidDocument, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", serrors.ErrInvalidDocument, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(io.LimitReader(rc, maxPartSize))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", serrors.ErrInvalidDocument, err)
	}

	if len(paragraphs) == 0 {
		return "", "", nil
	}
	return paragraphs[0], strings.Join(paragraphs[1:], "\n"), nil
}

// readParagraphs collects the text of every w:p element in document order.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		inText      bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "br", "cr":
				if inParagraph {
					current.WriteByte('\n')
				}
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
