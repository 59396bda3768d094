package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// rawField is one member of a JSON object with its value left undecoded.
type rawField struct {
	Key   string
	Value json.RawMessage
}

// rawObject is a JSON object that keeps its members, their order and their
// exact encoding. RewriteImages edits records through it so fields it does
// not model survive untouched.
type rawObject []rawField

func (o *rawObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	fields := rawObject{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return err
		}
		fields = append(fields, rawField{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = fields
	return nil
}

func (o rawObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o rawObject) get(key string) (json.RawMessage, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// set replaces the first member named key, or appends it.
func (o *rawObject) set(key string, value json.RawMessage) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, rawField{Key: key, Value: value})
}

// tokenID reads the integer token_id member.
func (o rawObject) tokenID() (int, bool) {
	v, ok := o.get("token_id")
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(n.String())
	return id, err == nil
}

// stringValue decodes member key as a string.
func (o rawObject) stringValue(key string) (string, bool) {
	v, ok := o.get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// setImage points the image member at want and reports whether it changed.
func (o *rawObject) setImage(want string) (bool, error) {
	if cur, ok := o.stringValue("image"); ok && cur == want {
		return false, nil
	}
	v, err := encodeString(want)
	if err != nil {
		return false, err
	}
	o.set("image", v)
	return true, nil
}

// encodeString encodes s as a JSON string without HTML escaping.
func encodeString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
