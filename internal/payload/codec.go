package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/order"
)

// Wire keys. They are shared with records written before payloadKind
// existed, so they must never change and no two variants may share one.
const (
	keyTag                   = "payloadKind"
	keyEditTextMessageID     = "editTextMessageId"
	keyCreateBuildableType   = "createBuildableType"
	keyCreateBuildableObject = "createBuildableObject"
	keyPageAt                = "pageAt"
	keyOrderState            = "orderState"
	keyCheckoutState         = "checkoutState"
	keyCalendarYear          = "calendarYear"
	keyCalendarMonth         = "calendarMonth"
	keyCalendarDay           = "calendarDay"
	keyCalendarTime          = "calendarTime"
	keyCalendarNeedsConfirm  = "calendarNeedsConfirm"
)

var (
	// ErrUnrecognized means the fields match no known variant.
	ErrUnrecognized = errors.New("payload: unrecognized variant")
	// ErrMalformed means a variant was recognized but its fields do not decode.
	ErrMalformed = errors.New("payload: malformed variant")
)

var null = json.RawMessage("null")

type decoder func(fields map[string]json.RawMessage) (Payload, error)

var decoders = map[Tag]decoder{
	TagEditText:     decodeEditText,
	TagBuild:        decodeBuild,
	TagPage:         decodePage,
	TagOrderBuilder: decodeOrderBuilder,
	TagCheckout:     decodeCheckout,
	TagCalendar:     decodeCalendar,
}

// Encode writes the variant's fields under their fixed keys together with
// the payloadKind discriminant.
func Encode(p Payload) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("payload: encode %s: %w", key, err)
		}
		fields[key] = raw
		return nil
	}

	var err error
	switch v := p.(type) {
	case EditText:
		err = put(keyEditTextMessageID, v.MessageID)
	case Build:
		object := v.Object
		if object == nil {
			object = map[string]Value{}
		}
		err = errors.Join(
			put(keyCreateBuildableType, v.Type),
			put(keyCreateBuildableObject, Object(object)),
		)
	case Page:
		err = put(keyPageAt, v.At)
	case OrderBuilder:
		err = put(keyOrderState, v.State)
	case Checkout:
		err = put(keyCheckoutState, v.State)
	case Calendar:
		var secs *float64
		if v.Time != nil {
			s := v.Time.Seconds()
			secs = &s
		}
		err = errors.Join(
			put(keyCalendarYear, v.Year),
			put(keyCalendarMonth, v.Month),
			put(keyCalendarDay, v.Day),
			put(keyCalendarTime, secs),
			put(keyCalendarNeedsConfirm, v.NeedsConfirm),
		)
	default:
		return nil, fmt.Errorf("payload: encode %T: %w", p, ErrUnrecognized)
	}
	if err != nil {
		return nil, err
	}
	if err := put(keyTag, p.Tag()); err != nil {
		return nil, err
	}
	return fields, nil
}

// Decode reads a payload. Tagged records are dispatched on payloadKind.
// Untagged records are matched by key presence in a fixed order, first
// match wins; that order is part of the stored format.
func Decode(fields map[string]json.RawMessage) (Payload, error) {
	if raw, ok := fields[keyTag]; ok && !isNull(raw) {
		var tag Tag
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, keyTag, err)
		}
		decode, ok := decoders[tag]
		if !ok {
			return nil, fmt.Errorf("%w: payloadKind %q", ErrUnrecognized, tag)
		}
		return decode(fields)
	}
	return decodeLegacy(fields)
}

func decodeLegacy(fields map[string]json.RawMessage) (Payload, error) {
	switch {
	case nonNull(fields, keyEditTextMessageID):
		return decodeEditText(fields)
	case nonNull(fields, keyCreateBuildableType):
		return decodeBuild(fields)
	case nonNull(fields, keyPageAt):
		return decodePage(fields)
	case present(fields, keyOrderState):
		return decodeOrderBuilder(fields)
	case present(fields, keyCheckoutState):
		return decodeCheckout(fields)
	case present(fields, keyCalendarYear) && present(fields, keyCalendarMonth):
		return decodeCalendar(fields)
	}
	return nil, ErrUnrecognized
}

// Marshal encodes p to JSON. A nil payload encodes to nil.
func Marshal(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	fields, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// Unmarshal decodes JSON written by Marshal, or by older versions without
// payloadKind. Empty input and JSON null decode to a nil payload.
func Unmarshal(data []byte) (Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 || isNull(data) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(fields)
}

func decodeEditText(fields map[string]json.RawMessage) (Payload, error) {
	var id int
	if err := required(fields, keyEditTextMessageID, &id); err != nil {
		return nil, err
	}
	return EditText{MessageID: id}, nil
}

func decodeBuild(fields map[string]json.RawMessage) (Payload, error) {
	var typ domain.BuildableType
	if err := required(fields, keyCreateBuildableType, &typ); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %s: unknown buildable type %q", ErrMalformed, keyCreateBuildableType, typ)
	}
	var object map[string]Value
	if err := required(fields, keyCreateBuildableObject, &object); err != nil {
		return nil, err
	}
	return Build{Type: typ, Object: object}, nil
}

func decodePage(fields map[string]json.RawMessage) (Payload, error) {
	var at int
	if err := required(fields, keyPageAt, &at); err != nil {
		return nil, err
	}
	return Page{At: at}, nil
}

func decodeOrderBuilder(fields map[string]json.RawMessage) (Payload, error) {
	var state order.State
	if err := required(fields, keyOrderState, &state); err != nil {
		return nil, err
	}
	return OrderBuilder{State: state}, nil
}

func decodeCheckout(fields map[string]json.RawMessage) (Payload, error) {
	var state order.Checkout
	if err := required(fields, keyCheckoutState, &state); err != nil {
		return nil, err
	}
	return Checkout{State: state}, nil
}

func decodeCalendar(fields map[string]json.RawMessage) (Payload, error) {
	var c Calendar
	if err := required(fields, keyCalendarYear, &c.Year); err != nil {
		return nil, err
	}
	if err := required(fields, keyCalendarMonth, &c.Month); err != nil {
		return nil, err
	}
	if err := optional(fields, keyCalendarDay, &c.Day); err != nil {
		return nil, err
	}
	var secs *float64
	if err := optional(fields, keyCalendarTime, &secs); err != nil {
		return nil, err
	}
	if secs != nil {
		d := order.SecondsToDuration(*secs)
		c.Time = &d
	}
	if err := required(fields, keyCalendarNeedsConfirm, &c.NeedsConfirm); err != nil {
		return nil, err
	}
	return c, nil
}

func required(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return fmt.Errorf("%w: %s is required", ErrMalformed, key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

func optional(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

func present(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}

func nonNull(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && !isNull(raw)
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), null)
}
