// Copyright 2026 The Restmachine Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Validator converts raw values into model types and runs tag validation.
// Safe for concurrent use after construction.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator. Field paths in errors use the `json` struct tag
// when present, falling back to the Go field name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			return field.Name
		}
		if comma := strings.IndexByte(tag, ','); comma >= 0 {
			tag = tag[:comma]
		}

		return tag
	})

	return &Validator{validate: v}
}

// Struct validates a model value against its `validate` tags. A failure is
// returned as *Error with one FieldError per offending field.
func (v *Validator) Struct(val any) error {
	err := v.validate.StructCtx(context.Background(), val)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		// InvalidValidationError and friends: not field-attributable.
		verr := &Error{}
		verr.Add("", "invalid", err.Error(), nil)

		return verr
	}

	verr := &Error{}
	for _, fe := range ves {
		verr.Add(fieldPath(fe), "tag."+fe.Tag(), tagMessage(fe), map[string]any{
			"tag":   fe.Tag(),
			"param": fe.Param(),
		})
	}

	return verr
}

// ToModel decodes a raw value (typically a map parsed from a request body,
// or a handler's raw return) into a fresh instance of the prototype's type
// and validates it.
//
// The prototype declares the target type: a struct, a pointer to struct, or
// a slice of either (in which case raw must be a list and each element is
// converted). A value already of the declared type skips decoding and is
// validated directly. Decode failures and tag failures both surface as
// *Error (422 with field details).
func (v *Validator) ToModel(raw any, prototype any) (any, error) {
	if prototype == nil {
		return raw, nil
	}

	target := reflect.TypeOf(prototype)
	if target == nil {
		return raw, nil
	}

	// Already the declared type: validate in place.
	if raw != nil && reflect.TypeOf(raw) == target {
		if err := v.validateDeep(raw, target); err != nil {
			return nil, err
		}

		return raw, nil
	}

	if target.Kind() == reflect.Slice {
		return v.toModelSlice(raw, target)
	}

	out := reflect.New(derefType(target))
	if err := decode(raw, out.Interface()); err != nil {
		return nil, err
	}

	result := materialize(out, target)
	if err := v.Struct(out.Interface()); err != nil {
		return nil, err
	}

	return result, nil
}

// toModelSlice converts a raw list element-by-element. Element error paths
// are prefixed with the element index.
func (v *Validator) toModelSlice(raw any, target reflect.Type) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		verr := &Error{}
		verr.Add("", "type", fmt.Sprintf("expected a list, got %T", raw), nil)

		return nil, verr
	}

	elem := target.Elem()
	out := reflect.MakeSlice(target, 0, len(items))
	collected := &Error{}
	for i, item := range items {
		converted, err := v.ToModel(item, reflect.New(derefType(elem)).Elem().Interface())
		if err != nil {
			var verr *Error
			if errors.As(err, &verr) {
				for _, fe := range verr.Fields {
					fe.Path = prefixPath(fmt.Sprintf("%d", i), fe.Path)
					collected.Fields = append(collected.Fields, fe)
				}
				continue
			}

			return nil, err
		}

		cv := reflect.ValueOf(converted)
		if elem.Kind() == reflect.Ptr && cv.Kind() != reflect.Ptr {
			p := reflect.New(elem.Elem())
			p.Elem().Set(cv)
			cv = p
		}
		out = reflect.Append(out, cv)
	}

	if collected.HasErrors() {
		return nil, collected
	}

	return out.Interface(), nil
}

// validateDeep validates a value of the declared type, walking into slices.
func (v *Validator) validateDeep(val any, target reflect.Type) error {
	if target.Kind() != reflect.Slice {
		return v.Struct(val)
	}

	rv := reflect.ValueOf(val)
	collected := &Error{}
	for i := 0; i < rv.Len(); i++ {
		if err := v.Struct(rv.Index(i).Interface()); err != nil {
			var verr *Error
			if errors.As(err, &verr) {
				for _, fe := range verr.Fields {
					fe.Path = prefixPath(fmt.Sprintf("%d", i), fe.Path)
					collected.Fields = append(collected.Fields, fe)
				}
				continue
			}

			return err
		}
	}

	if collected.HasErrors() {
		return collected
	}

	return nil
}

// decode maps a raw value onto the target pointer using `json` tag names.
func decode(raw any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("model decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		verr := &Error{}
		addDecodeErrors(verr, err)

		return verr
	}

	return nil
}

// addDecodeErrors flattens a mapstructure decode failure into field errors.
// Decode joins per-field errors with errors.Join and may wrap the join in a
// summary error, so the tree is walked through both unwrap shapes. A
// *DecodeError leaf carries the offending field's name; anything else is
// recorded without a path.
func addDecodeErrors(verr *Error, err error) {
	switch e := err.(type) {
	case *mapstructure.DecodeError:
		verr.Add(e.Name(), "decode", e.Unwrap().Error(), nil)
	case interface{ Unwrap() []error }:
		for _, sub := range e.Unwrap() {
			addDecodeErrors(verr, sub)
		}
	case interface{ Unwrap() error }:
		if sub := e.Unwrap(); sub != nil {
			addDecodeErrors(verr, sub)

			return
		}
		verr.Add("", "decode", err.Error(), nil)
	default:
		verr.Add("", "decode", err.Error(), nil)
	}
}

// materialize returns the decoded value in the declared form: the struct
// itself for value prototypes, the pointer for pointer prototypes.
func materialize(out reflect.Value, target reflect.Type) any {
	if target.Kind() == reflect.Ptr {
		return out.Interface()
	}

	return out.Elem().Interface()
}

// derefType unwraps one level of pointer.
func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}

	return t
}

// fieldPath strips the root struct name from a validator namespace:
// "CreateUser.address.city" becomes "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if dot := strings.IndexByte(ns, '.'); dot >= 0 {
		return ns[dot+1:]
	}

	return ns
}

// prefixPath joins an index prefix with a field path.
func prefixPath(prefix, path string) string {
	if path == "" {
		return prefix
	}

	return prefix + "." + path
}

// tagMessage produces a human-readable message for a failed tag.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}

		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
