package pdfink

import (
	"encoding/json"
	"fmt"
)

// Collection is the ordered sequence of annotations. Order is layer order:
// later entries draw on top. The collection is owned by a [Store]; callers
// must not retain aliases across mutations.
type Collection []Annotation

// Clone returns a deep copy of the collection. The copy shares no mutable
// state with the original.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, a := range c {
		out[i] = a.Clone()
	}
	return out
}

// Find returns the annotation with the given id, or nil.
func (c Collection) Find(id string) Annotation {
	for _, a := range c {
		if a.GetCommon().ID == id {
			return a
		}
	}
	return nil
}

// IndexOf returns the layer index of the annotation with the given id,
// or -1.
func (c Collection) IndexOf(id string) int {
	for i, a := range c {
		if a.GetCommon().ID == id {
			return i
		}
	}
	return -1
}

// OnPage returns the annotations on the given 1-based page, in layer order.
func (c Collection) OnPage(page int) Collection {
	var out Collection
	for _, a := range c {
		if a.GetCommon().Page == page {
			out = append(out, a)
		}
	}
	return out
}

// envelope is the serialized form of one annotation: the variant fields
// plus a "type" discriminator.
type envelope struct {
	Type Kind `json:"type"`
}

// MarshalJSON serializes the collection with a "type" tag per annotation.
func (c Collection) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(c))
	for i, a := range c {
		body, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		items[i], err = mergeTag(a.Kind(), body)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(items)
}

// mergeTag injects the "type" discriminator into a marshaled variant
// object.
func mergeTag(k Kind, body []byte) (json.RawMessage, error) {
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("pdfink: unexpected annotation encoding")
	}
	tag := fmt.Sprintf(`{"type":%q`, string(k))
	if len(body) == 2 { // empty object
		return json.RawMessage(tag + "}"), nil
	}
	return json.RawMessage(tag + "," + string(body[1:])), nil
}

// UnmarshalJSON decodes a collection serialized by MarshalJSON, switching
// on each element's "type" tag. Unknown kinds are rejected.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Collection, 0, len(items))
	for _, raw := range items {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		a := newOfKind(env.Type)
		if a == nil {
			return fmt.Errorf("pdfink: unknown annotation type %q", env.Type)
		}
		if err := json.Unmarshal(raw, a); err != nil {
			return err
		}
		out = append(out, a)
	}
	*c = out
	return nil
}
