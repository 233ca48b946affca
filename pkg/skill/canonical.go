package skill

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"
)

// MarshalCanonical renders doc in RFC 8785 canonical form: sorted object
// keys, minimal string escaping, fixed number formatting. Two semantically
// identical documents always canonicalize to identical bytes, which makes
// regenerated output diffable and hashable.
func MarshalCanonical(doc *Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize document: %w", err)
	}
	return canonical, nil
}

// ContentHash returns the hex SHA-256 of the document's canonical form. The
// hash identifies skill content independent of key order or whitespace.
func ContentHash(doc *Document) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// WriteJSON writes doc as plain JSON. HTML escaping is off: the document
// embeds SSML fragments like <speak> and <voice>, and the import endpoint
// expects them literal rather than unicode-escaped.
func WriteJSON(w io.Writer, doc *Document, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// WriteCanonical writes doc in RFC 8785 canonical form.
func WriteCanonical(w io.Writer, doc *Document) error {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(canonical); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
