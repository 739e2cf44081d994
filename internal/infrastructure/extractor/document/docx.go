package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

func docxText(r io.ReaderAt, size int64) (string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if strings.EqualFold(f.Name, docxMainPart) {
			part = f
			break
		}
	}
	if part == nil {
		return "", errors.New("docx archive has no " + docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxMainPart, err)
	}
	defer rc.Close()

	return bodyParagraphs(rc)
}

// bodyParagraphs emits the text of each top-level body paragraph followed by
// a newline, empty paragraphs included. Table cells and text boxes are not
// top-level paragraphs and are skipped.
func bodyParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		paragraph strings.Builder
		stack     []string
		inBodyP   bool
		nestedP   int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxMainPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			name := t.Name.Local
			stack = append(stack, name)
			collecting := inBodyP && nestedP == 0

			switch {
			case name == "p" && inBodyP:
				nestedP++
			case name == "p" && parent == "body":
				inBodyP = true
				paragraph.Reset()
			case name == "t" && collecting:
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", fmt.Errorf("parse %s: %w", docxMainPart, err)
				}
				paragraph.WriteString(s)
				stack = stack[:len(stack)-1]
			case name == "tab" && collecting && parent == "r":
				paragraph.WriteByte('\t')
			case (name == "br" || name == "cr") && collecting && parent == "r":
				paragraph.WriteByte('\n')
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local != "p" || !inBodyP {
				continue
			}
			if nestedP > 0 {
				nestedP--
				continue
			}
			inBodyP = false
			out.WriteString(paragraph.String())
			out.WriteByte('\n')
		}
	}
	return out.String(), nil
}
