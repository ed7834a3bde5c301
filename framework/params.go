package framework

import (
	"errors"
	"fmt"
)

// ErrInvalidRouteParameter is matched by every parameter resolution failure.
var ErrInvalidRouteParameter = errors.New("invalid route parameter")

type ParamReason string

const (
	ParamReasonMissing   ParamReason = "missing"
	ParamReasonEmpty     ParamReason = "empty"
	ParamReasonNotScalar ParamReason = "not_scalar"
)

type InvalidRouteParameterError struct {
	Param  string
	Reason ParamReason
}

func (e *InvalidRouteParameterError) Error() string {
	return fmt.Sprintf("invalid route parameter %q: %s", e.Param, e.Reason)
}

func (e *InvalidRouteParameterError) Is(target error) bool {
	return target == ErrInvalidRouteParameter
}

func IsInvalidRouteParameter(err error) bool {
	return errors.Is(err, ErrInvalidRouteParameter)
}

// ParamValue holds one captured path parameter. Catch-all segments
// produce multi-valued parameters even when a single segment matched.
type ParamValue struct {
	values []string
	multi  bool
}

func ScalarParam(value string) ParamValue {
	return ParamValue{values: []string{value}}
}

func MultiParam(values ...string) ParamValue {
	copied := make([]string, len(values))
	copy(copied, values)
	return ParamValue{values: copied, multi: true}
}

func (v ParamValue) IsMulti() bool {
	return v.multi
}

func (v ParamValue) Scalar() (string, bool) {
	if v.multi || len(v.values) != 1 {
		return "", false
	}
	return v.values[0], true
}

func (v ParamValue) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

type RawParams map[string]ParamValue

// NavigationState is the matched route and its captured parameters for a
// single request. It is rebuilt on every navigation.
type NavigationState struct {
	RoutePattern string
	RequestPath  string
	Params       RawParams
}

type ParamsResolver[P interface{}] func(raw RawParams) (P, error)

// RequireScalar returns the non-empty scalar value of name. It never
// coerces arrays or trims the value.
func RequireScalar(raw RawParams, name string) (string, error) {
	value, ok := raw[name]
	if !ok {
		return "", &InvalidRouteParameterError{Param: name, Reason: ParamReasonMissing}
	}

	scalar, ok := value.Scalar()
	if !ok {
		return "", &InvalidRouteParameterError{Param: name, Reason: ParamReasonNotScalar}
	}
	if scalar == "" {
		return "", &InvalidRouteParameterError{Param: name, Reason: ParamReasonEmpty}
	}

	return scalar, nil
}

func ResolveEmptyParams(RawParams) (EmptyParams, error) {
	return EmptyParams{}, nil
}
