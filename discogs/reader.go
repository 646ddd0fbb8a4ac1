package discogs

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

var ErrMalformedInput = errors.New("malformed releases xml")

const releaseTag = "release"

// OpenReleases streams the releases of the file at path. The returned closer
// must be called once the sequence is no longer needed.
func OpenReleases(path string) (iter.Seq2[*Element, error], func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return Releases(file), file.Close, nil
}

// Releases incrementally decodes r, yielding each release element once its
// end tag has been read. Only the release currently being built is held in
// memory; everything outside a release is tracked as nesting depth alone.
func Releases(r io.Reader) iter.Seq2[*Element, error] {
	return func(yield func(*Element, error) bool) {

		decoder := xml.NewDecoder(r)

		open := []*Element{}
		depth := 0
		seenRoot := false

		for {
			token, err := decoder.Token()
			if err == io.EOF {
				switch {
				case !seenRoot:
					yield(nil, malformed(errors.New("no element found")))
				case depth > 0 || len(open) > 0:
					yield(nil, malformed(io.ErrUnexpectedEOF))
				}
				return
			}
			if err != nil {
				yield(nil, malformed(err))
				return
			}

			switch t := token.(type) {
			case xml.StartElement:
				topLevel := depth == 0 && len(open) == 0
				if topLevel && seenRoot {
					line, _ := decoder.InputPos()
					yield(nil, malformed(fmt.Errorf("junk after document element on line %d", line)))
					return
				}
				seenRoot = true

				if len(open) == 0 && t.Name.Local != releaseTag {
					depth++
					continue
				}

				el := newElement(t)
				if len(open) > 0 {
					parent := open[len(open)-1]
					parent.Children = append(parent.Children, el)
				}
				open = append(open, el)

			case xml.EndElement:
				if len(open) == 0 {
					depth--
					continue
				}

				el := open[len(open)-1]
				open = open[:len(open)-1]

				if el.Name == releaseTag {
					if !yield(el, nil) {
						return
					}
				}

			case xml.CharData:
				if depth == 0 && len(open) == 0 && len(bytes.TrimSpace(t)) > 0 {
					line, _ := decoder.InputPos()
					if seenRoot {
						yield(nil, malformed(fmt.Errorf("junk after document element on line %d", line)))
					} else {
						yield(nil, malformed(fmt.Errorf("text before document element on line %d", line)))
					}
					return
				}

				if len(open) == 0 {
					continue
				}

				el := open[len(open)-1]
				if len(el.Children) == 0 {
					el.Text += string(t)
				}
			}
		}
	}
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedInput, err)
}
