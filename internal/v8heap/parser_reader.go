package v8heap

import (
	"bufio"
	"encoding/json"
	"io"
)

// tokenReader wraps encoding/json.Decoder's token-level streaming API so the
// parser never materializes the full `nodes`/`edges`/`strings` arrays in
// memory — only one record window (or one string) is held at a time
// (spec.md §4.1, "must not materialize the full document in memory").
// This is the same buffered-incremental-read posture as a binary-format
// streaming reader, adapted to JSON's token model instead of fixed-width
// byte records.
type tokenReader struct {
	dec *json.Decoder
}

func newTokenReader(r io.Reader) *tokenReader {
	dec := json.NewDecoder(bufio.NewReaderSize(r, 256*1024))
	dec.UseNumber()
	return &tokenReader{dec: dec}
}

// inputOffset reports the decoder's current byte offset, used to annotate
// malformed-JSON errors with a location.
func (tr *tokenReader) inputOffset() int64 {
	return tr.dec.InputOffset()
}

// expectDelim consumes the next token and requires it to be the given
// delimiter ('{', '}', '[' or ']').
func (tr *tokenReader) expectDelim(want json.Delim) error {
	tok, err := tr.dec.Token()
	if err != nil {
		return newInputMalformed(tr.inputOffset(), err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return newInputMalformed(tr.inputOffset(), nil)
	}
	return nil
}

// nextKey reads the next object key, reporting ok=false when the enclosing
// object has closed (the '}' token was consumed).
func (tr *tokenReader) nextKey() (key string, ok bool, err error) {
	tok, err := tr.dec.Token()
	if err != nil {
		return "", false, newInputMalformed(tr.inputOffset(), err)
	}
	if d, isDelim := tok.(json.Delim); isDelim && d == '}' {
		return "", false, nil
	}
	s, isStr := tok.(string)
	if !isStr {
		return "", false, newInputMalformed(tr.inputOffset(), nil)
	}
	return s, true, nil
}

// skipValue discards the next JSON value, however deeply nested — used for
// top-level keys this parser does not recognize.
func (tr *tokenReader) skipValue() error {
	depth := 0
	for {
		tok, err := tr.dec.Token()
		if err != nil {
			return newInputMalformed(tr.inputOffset(), err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// rawValue decodes the next JSON value verbatim, for the (small) snapshot
// metadata object.
func (tr *tokenReader) rawValue() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := tr.dec.Decode(&raw); err != nil {
		return nil, newInputMalformed(tr.inputOffset(), err)
	}
	return raw, nil
}

// nextInt reads the next array element as an integer.
func (tr *tokenReader) nextInt() (int64, error) {
	tok, err := tr.dec.Token()
	if err != nil {
		return 0, newInputMalformed(tr.inputOffset(), err)
	}
	num, ok := tok.(json.Number)
	if !ok {
		return 0, newInputMalformed(tr.inputOffset(), nil)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, newInputMalformed(tr.inputOffset(), err)
	}
	return v, nil
}

// nextString reads the next array element as a string.
func (tr *tokenReader) nextString() (string, error) {
	tok, err := tr.dec.Token()
	if err != nil {
		return "", newInputMalformed(tr.inputOffset(), err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", newInputMalformed(tr.inputOffset(), nil)
	}
	return s, nil
}

// more reports whether the currently open array/object has another element,
// mirroring json.Decoder.More without exposing the decoder itself.
func (tr *tokenReader) more() bool {
	return tr.dec.More()
}
