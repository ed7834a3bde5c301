package router

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"market/framework"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

type pathSegment struct {
	name string
	kind segmentKind
}

type Route struct {
	pattern     string
	segments    []pathSegment
	staticCount int
	patternKey  string
}

func (route Route) Pattern() string {
	return route.pattern
}

// ParamNames lists the route's parameter slots in path order.
func (route Route) ParamNames() []string {
	names := make([]string, 0, len(route.segments))
	for _, segment := range route.segments {
		if segment.kind != segmentStatic {
			names = append(names, segment.name)
		}
	}
	return names
}

type RouteMatch struct {
	Pattern string
	Params  framework.RawParams
}

func (m RouteMatch) Param(name string) (framework.ParamValue, bool) {
	if m.Params == nil {
		return framework.ParamValue{}, false
	}

	value, ok := m.Params[name]
	return value, ok
}

type Router struct {
	routes []Route
}

func New(patterns ...string) (*Router, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no route patterns given")
	}

	routes := make([]Route, 0, len(patterns))
	seenPattern := make(map[string]string, len(patterns))
	for _, pattern := range patterns {
		route, err := Parse(pattern)
		if err != nil {
			return nil, err
		}

		if existing, ok := seenPattern[route.patternKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, route.pattern)
		}
		seenPattern[route.patternKey] = route.pattern
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i int, j int) bool {
		left := routes[i]
		right := routes[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		if len(left.segments) != len(right.segments) {
			return len(left.segments) > len(right.segments)
		}
		return left.pattern < right.pattern
	})

	return &Router{routes: routes}, nil
}

func Parse(pattern string) (Route, error) {
	trimmed := strings.TrimSpace(pattern)
	if !strings.HasPrefix(trimmed, "/") {
		return Route{}, fmt.Errorf("route pattern %q must start with /", pattern)
	}

	parts := splitPathSegments(trimmed)
	segments := make([]pathSegment, 0, len(parts))
	patternParts := make([]string, 0, len(parts))
	normalizedParts := make([]string, 0, len(parts))
	staticCount := 0

	for idx, part := range parts {
		segment, err := parseSegment(part)
		if err != nil {
			return Route{}, fmt.Errorf("route pattern %q: %w", pattern, err)
		}

		switch segment.kind {
		case segmentCatchAll:
			if idx != len(parts)-1 {
				return Route{}, fmt.Errorf("route pattern %q: catch-all %q must be the last segment", pattern, part)
			}
			patternParts = append(patternParts, "*")
			normalizedParts = append(normalizedParts, "[..."+segment.name+"]")
		case segmentParam:
			patternParts = append(patternParts, ":")
			normalizedParts = append(normalizedParts, "["+segment.name+"]")
		default:
			patternParts = append(patternParts, segment.name)
			normalizedParts = append(normalizedParts, segment.name)
			staticCount++
		}
		segments = append(segments, segment)
	}

	if err := checkDuplicateNames(segments); err != nil {
		return Route{}, fmt.Errorf("route pattern %q: %w", pattern, err)
	}

	return Route{
		pattern:     "/" + strings.Join(normalizedParts, "/"),
		segments:    segments,
		staticCount: staticCount,
		patternKey:  "/" + strings.Join(patternParts, "/"),
	}, nil
}

func parseSegment(segment string) (pathSegment, error) {
	if strings.TrimSpace(segment) == "" {
		return pathSegment{}, errors.New("empty path segment")
	}

	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return pathSegment{}, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		kind := segmentParam
		if strings.HasPrefix(name, "...") {
			name = strings.TrimPrefix(name, "...")
			kind = segmentCatchAll
		}
		if !dynamicSegmentNamePattern.MatchString(name) {
			return pathSegment{}, fmt.Errorf("invalid wildcard name %q", name)
		}

		return pathSegment{name: name, kind: kind}, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return pathSegment{}, fmt.Errorf("invalid static segment %q", segment)
	}

	return pathSegment{name: segment, kind: segmentStatic}, nil
}

func checkDuplicateNames(segments []pathSegment) error {
	seen := make(map[string]struct{}, len(segments))
	for _, segment := range segments {
		if segment.kind == segmentStatic {
			continue
		}
		if _, ok := seen[segment.name]; ok {
			return fmt.Errorf("duplicate parameter %q", segment.name)
		}
		seen[segment.name] = struct{}{}
	}
	return nil
}

// Match finds the most specific route for requestPath. A trailing slash
// after a parameter slot is captured as an empty value so resolvers can
// reject it; static routes still tolerate the slash.
func (router *Router) Match(requestPath string) (RouteMatch, bool) {
	requestSegments := splitPathSegments(requestPath)

	if hasTrailingSlash(requestPath) && len(requestSegments) > 0 {
		withEmpty := append(append([]string{}, requestSegments...), "")
		if match, ok := router.matchSegments(withEmpty); ok {
			return match, true
		}
	}

	return router.matchSegments(requestSegments)
}

// Navigate builds the navigation state for requestPath.
func (router *Router) Navigate(requestPath string) (framework.NavigationState, bool) {
	match, ok := router.Match(requestPath)
	if !ok {
		return framework.NavigationState{RequestPath: requestPath}, false
	}

	return framework.NavigationState{
		RoutePattern: match.Pattern,
		RequestPath:  requestPath,
		Params:       match.Params,
	}, true
}

func (router *Router) matchSegments(requestSegments []string) (RouteMatch, bool) {
	for _, route := range router.routes {
		params, ok := route.matchSegments(requestSegments)
		if !ok {
			continue
		}
		return RouteMatch{Pattern: route.pattern, Params: params}, true
	}

	return RouteMatch{}, false
}

// Matcher returns a framework.RouteMatcher bound to the route with the given
// pattern. Precedence across routes is preserved: a path claimed by a more
// specific route never matches here.
func (router *Router) Matcher(pattern string) (framework.RouteMatcher, error) {
	route, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	for _, known := range router.routes {
		if known.pattern == route.pattern {
			return func(requestPath string) (framework.RawParams, bool) {
				state, ok := router.Navigate(requestPath)
				if !ok || state.RoutePattern != route.pattern {
					return nil, false
				}
				return state.Params, true
			}, nil
		}
	}

	return nil, fmt.Errorf("route %q is not registered", pattern)
}

func (route Route) matchSegments(requestSegments []string) (framework.RawParams, bool) {
	last := len(route.segments) - 1
	hasCatchAll := last >= 0 && route.segments[last].kind == segmentCatchAll

	if hasCatchAll {
		if len(requestSegments) < len(route.segments) {
			return nil, false
		}
	} else if len(route.segments) != len(requestSegments) {
		return nil, false
	}

	params := make(framework.RawParams, 2)
	for idx, segment := range route.segments {
		requestValue := requestSegments[idx]
		switch segment.kind {
		case segmentCatchAll:
			rest := requestSegments[idx:]
			for _, value := range rest {
				if value == "" {
					return nil, false
				}
			}
			params[segment.name] = framework.MultiParam(rest...)
		case segmentParam:
			params[segment.name] = framework.ScalarParam(requestValue)
		default:
			if segment.name != requestValue {
				return nil, false
			}
		}
	}

	return params, true
}

func MatchPathPattern(pattern string, requestPath string) (framework.RawParams, bool) {
	router, err := New(pattern)
	if err != nil {
		return nil, false
	}

	match, ok := router.Match(requestPath)
	if !ok {
		return nil, false
	}
	return match.Params, true
}

// splitPathSegments keeps segment values byte for byte; only empty and dot
// segments are collapsed.
func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + raw)
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}

func hasTrailingSlash(raw string) bool {
	return len(raw) > 1 && strings.HasSuffix(raw, "/")
}
