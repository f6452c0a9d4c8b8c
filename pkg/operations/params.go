// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import (
	"encoding/json"
	"math"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// Parameter extraction at the untrusted boundary. JSON numbers arrive as
// float64 through encoding/json, so integers are accepted in any numeric
// shape that holds a whole value.

func stringParam(params map[string]any, name string) (string, *validation.Error) {
	v, ok := params[name]
	if !ok || v == nil {
		return "", validation.MissingParameter(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", validation.InvalidParameterType(name, "string")
	}
	return s, nil
}

func optionalStringParam(params map[string]any, name, fallback string) (string, *validation.Error) {
	v, ok := params[name]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", validation.InvalidParameterType(name, "string")
	}
	if s == "" {
		return fallback, nil
	}
	return s, nil
}

func intParam(params map[string]any, name string) (int, *validation.Error) {
	v, ok := params[name]
	if !ok || v == nil {
		return 0, validation.MissingParameter(name)
	}
	return coerceInt(name, v)
}

func optionalIntParam(params map[string]any, name string, fallback int) (int, *validation.Error) {
	v, ok := params[name]
	if !ok || v == nil {
		return fallback, nil
	}
	return coerceInt(name, v)
}

func coerceInt(name string, v any) (int, *validation.Error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, validation.InvalidParameterType(name, "integer")
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, validation.InvalidParameterType(name, "integer")
		}
		return int(i), nil
	default:
		return 0, validation.InvalidParameterType(name, "integer")
	}
}
