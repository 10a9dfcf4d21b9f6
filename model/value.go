package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type ValueType string

const (
	TypeCheckbox ValueType = "checkbox"
	TypeText     ValueType = "text"
	TypeNumber   ValueType = "number"
	TypeDate     ValueType = "date"
	TypeSelect   ValueType = "select"
	TypeFile     ValueType = "file"
)

func (t ValueType) Valid() bool {
	switch t {
	case TypeCheckbox, TypeText, TypeNumber, TypeDate, TypeSelect, TypeFile:
		return true
	}
	return false
}

// Value is the payload of a Response. Exactly one concrete type exists per
// ValueType.
type Value interface {
	Type() ValueType
	value()
}

type (
	BoolValue   bool
	TextValue   string
	NumberValue float64
	DateValue   time.Time
	OptionValue string
	FilesValue  []string
)

func (BoolValue) Type() ValueType   { return TypeCheckbox }
func (TextValue) Type() ValueType   { return TypeText }
func (NumberValue) Type() ValueType { return TypeNumber }
func (DateValue) Type() ValueType   { return TypeDate }
func (OptionValue) Type() ValueType { return TypeSelect }
func (FilesValue) Type() ValueType  { return TypeFile }

func (BoolValue) value()   {}
func (TextValue) value()   {}
func (NumberValue) value() {}
func (DateValue) value()   {}
func (OptionValue) value() {}
func (FilesValue) value()  {}

const dateOnly = "2006-01-02"

type valueEnvelope struct {
	Type ValueType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeValue serializes v as {"type": ..., "data": ...}. A nil value encodes
// to nil.
func EncodeValue(v Value) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var data any
	switch v := v.(type) {
	case BoolValue:
		data = bool(v)
	case TextValue:
		data = string(v)
	case NumberValue:
		data = float64(v)
	case DateValue:
		data = time.Time(v).Format(time.RFC3339)
	case OptionValue:
		data = string(v)
	case FilesValue:
		files := []string(v)
		if files == nil {
			files = []string{}
		}
		data = files
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueEnvelope{Type: v.Type(), Data: raw})
}

// DecodeValue is the inverse of EncodeValue. Empty input or JSON null decode
// to a nil Value.
func DecodeValue(b []byte) (Value, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var env valueEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return env.decode()
}

func (env valueEnvelope) decode() (Value, error) {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	switch env.Type {
	case TypeCheckbox:
		var b bool
		err := json.Unmarshal(env.Data, &b)
		return BoolValue(b), err
	case TypeText:
		var s string
		err := json.Unmarshal(env.Data, &s)
		return TextValue(s), err
	case TypeNumber:
		var n float64
		err := json.Unmarshal(env.Data, &n)
		return NumberValue(n), err
	case TypeDate:
		var s string
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse(dateOnly, s)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		return DateValue(t), nil
	case TypeSelect:
		var s string
		err := json.Unmarshal(env.Data, &s)
		return OptionValue(s), err
	case TypeFile:
		var files []string
		err := json.Unmarshal(env.Data, &files)
		return FilesValue(files), err
	}
	return nil, fmt.Errorf("unknown value type %q", env.Type)
}

// Conformity is the tri-state verdict of a Response plus the absent state.
type Conformity int8

const (
	Unanswered Conformity = iota
	Conforming
	NonConforming
	NotApplicable
)

func (c Conformity) String() string {
	switch c {
	case Conforming:
		return "conforme"
	case NonConforming:
		return "nao_conforme"
	case NotApplicable:
		return "nao_aplicavel"
	}
	return "sem_resposta"
}

// MarshalJSON maps the verdict onto true / false / null. Unanswered is left
// out through omitempty.
func (c Conformity) MarshalJSON() ([]byte, error) {
	switch c {
	case Conforming:
		return []byte("true"), nil
	case NonConforming:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (c *Conformity) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*c = Conforming
	case "false":
		*c = NonConforming
	case "null":
		*c = NotApplicable
	default:
		return errors.New("conforme must be true, false or null")
	}
	return nil
}

type responseJSON struct {
	ID           int64          `json:"id,omitempty"`
	PointID      int64          `json:"point_id"`
	Value        *valueEnvelope `json:"value,omitempty"`
	Observations string         `json:"observations,omitempty"`
	Responsible  string         `json:"responsible,omitempty"`
	Conformity   Conformity     `json:"conforme,omitempty"`
	RespondedAt  time.Time      `json:"responded_at"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	out := responseJSON{
		ID:           r.ID,
		PointID:      r.PointID,
		Observations: r.Observations,
		Responsible:  r.Responsible,
		Conformity:   r.Conformity,
		RespondedAt:  r.RespondedAt,
	}
	if r.Value != nil {
		raw, err := EncodeValue(r.Value)
		if err != nil {
			return nil, err
		}
		out.Value = &valueEnvelope{}
		if err := json.Unmarshal(raw, out.Value); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (r *Response) UnmarshalJSON(b []byte) error {
	var in responseJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = Response{
		ID:           in.ID,
		PointID:      in.PointID,
		Observations: in.Observations,
		Responsible:  in.Responsible,
		Conformity:   in.Conformity,
		RespondedAt:  in.RespondedAt,
	}
	if in.Value != nil {
		v, err := in.Value.decode()
		if err != nil {
			return err
		}
		r.Value = v
	}
	return nil
}
