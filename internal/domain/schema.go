package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// FieldError describes one schema violation at a JSON path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors collects every schema violation found in a payload so callers
// can surface field-level detail rather than a single opaque message.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Path + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

func (e *FieldErrors) add(path, message string) {
	*e = append(*e, FieldError{Path: path, Message: message})
}

// DecodeBody parses raw bytes as a single JSON object. Numbers are kept as
// json.Number so the validator can tell integers from reals without
// precision loss on 64-bit epochs.
func DecodeBody(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode body: trailing data after JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("decode body: payload must be a JSON object")
	}
	return obj, nil
}

// ValidatePayload checks a decoded JSON object against the Tive payload
// shape and returns the typed payload, or the full set of field errors.
// Unknown fields are ignored. Optional sub-objects accept both null and
// absence as "no data". Pure function, no side effects.
func ValidatePayload(obj map[string]any) (Payload, FieldErrors) {
	var errs FieldErrors
	var p Payload

	p.DeviceID = requiredString(obj, "DeviceId", &errs)
	p.DeviceName = requiredString(obj, "DeviceName", &errs)
	p.EntryTimeEpoch = requiredEpoch(obj, "EntryTimeEpoch", &errs)

	if temp := requiredObject(obj, "Temperature", "Temperature", &errs); temp != nil {
		p.TemperatureC = requiredNumber(temp, "Celsius", "Temperature.Celsius", &errs)
	}

	if loc := requiredObject(obj, "Location", "Location", &errs); loc != nil {
		p.Location.Latitude = requiredNumber(loc, "Latitude", "Location.Latitude", &errs)
		p.Location.Longitude = requiredNumber(loc, "Longitude", "Location.Longitude", &errs)
		p.Location.FormattedAddress = optionalString(loc, "FormattedAddress", "Location.FormattedAddress", &errs)
		p.Location.LocationMethod = optionalString(loc, "LocationMethod", "Location.LocationMethod", &errs)
		if acc := optionalObject(loc, "Accuracy", "Location.Accuracy", &errs); acc != nil {
			p.Location.AccuracyM = optionalNumber(acc, "Meters", "Location.Accuracy.Meters", &errs)
		}
		p.Location.WifiAccessPoints = optionalInt(loc, "WifiAccessPointUsedCount", "Location.WifiAccessPointUsedCount", &errs)
	}

	if hum := optionalObject(obj, "Humidity", "Humidity", &errs); hum != nil {
		v := requiredNumber(hum, "Percentage", "Humidity.Percentage", &errs)
		p.HumidityPct = &v
	}

	if light := optionalObject(obj, "Light", "Light", &errs); light != nil {
		v := requiredNumber(light, "Lux", "Light.Lux", &errs)
		p.LightLux = &v
	}

	if bat := optionalObject(obj, "Battery", "Battery", &errs); bat != nil {
		v := requiredInt(bat, "Percentage", "Battery.Percentage", &errs)
		if v < 0 || v > 100 {
			errs.add("Battery.Percentage", "must be between 0 and 100")
		} else {
			p.BatteryPct = &v
		}
	}

	if cell := optionalObject(obj, "Cellular", "Cellular", &errs); cell != nil {
		v := requiredNumber(cell, "Dbm", "Cellular.Dbm", &errs)
		p.CellularDbm = &v
	}

	if len(errs) > 0 {
		return Payload{}, errs
	}
	return p, nil
}

// asNumber accepts json.Number (DecodeBody) or float64 (a collaborator
// handing over an already-decoded document).
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	}
	return 0, false
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		// "21.0" style values still count as integers.
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func requiredString(obj map[string]any, key string, errs *FieldErrors) string {
	v, ok := obj[key]
	if !ok || v == nil {
		errs.add(key, "required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		errs.add(key, "must be a string")
		return ""
	}
	if s == "" {
		errs.add(key, "must not be empty")
		return ""
	}
	return s
}

func requiredEpoch(obj map[string]any, key string, errs *FieldErrors) int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		errs.add(key, "required")
		return 0
	}
	n, ok := asInt(v)
	if !ok {
		errs.add(key, "must be an integer")
		return 0
	}
	if n < 0 {
		errs.add(key, "must not be negative")
		return 0
	}
	return n
}

func requiredObject(obj map[string]any, key, path string, errs *FieldErrors) map[string]any {
	v, ok := obj[key]
	if !ok || v == nil {
		errs.add(path, "required")
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		errs.add(path, "must be an object")
		return nil
	}
	return m
}

func optionalObject(obj map[string]any, key, path string, errs *FieldErrors) map[string]any {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		errs.add(path, "must be an object or null")
		return nil
	}
	return m
}

func requiredNumber(obj map[string]any, key, path string, errs *FieldErrors) float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		errs.add(path, "required")
		return 0
	}
	f, ok := asNumber(v)
	if !ok {
		errs.add(path, "must be a number")
		return 0
	}
	return f
}

func requiredInt(obj map[string]any, key, path string, errs *FieldErrors) int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		errs.add(path, "required")
		return 0
	}
	n, ok := asInt(v)
	if !ok {
		errs.add(path, "must be an integer")
		return 0
	}
	return n
}

func optionalString(obj map[string]any, key, path string, errs *FieldErrors) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		errs.add(path, "must be a string or null")
		return nil
	}
	return &s
}

func optionalNumber(obj map[string]any, key, path string, errs *FieldErrors) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := asNumber(v)
	if !ok {
		errs.add(path, "must be a number or null")
		return nil
	}
	return &f
}

func optionalInt(obj map[string]any, key, path string, errs *FieldErrors) *int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	n, ok := asInt(v)
	if !ok {
		errs.add(path, "must be an integer or null")
		return nil
	}
	return &n
}
