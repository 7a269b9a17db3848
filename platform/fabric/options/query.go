/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package options

import (
	"strings"

	"gopkg.in/yaml.v2"
)

const wildcard = "*"

// step selects the children named name, or every descendant named name
// when descend is set.
type step struct {
	name    string
	descend bool
}

type query []step

// parseQuery accepts "$", "$.a.b", "$..b", "a.b" and "*" segments.
func parseQuery(expr string) (query, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) == 0 {
		return nil, false
	}
	if strings.HasPrefix(expr, "$") {
		expr = expr[1:]
	} else if !strings.HasPrefix(expr, ".") {
		expr = "." + expr
	}

	var q query
	for len(expr) != 0 {
		s := step{}
		switch {
		case strings.HasPrefix(expr, ".."):
			s.descend = true
			expr = expr[2:]
		case strings.HasPrefix(expr, "."):
			expr = expr[1:]
		default:
			return nil, false
		}
		end := strings.IndexByte(expr, '.')
		if end < 0 {
			end = len(expr)
		}
		s.name = expr[:end]
		if len(s.name) == 0 {
			return nil, false
		}
		expr = expr[end:]
		q = append(q, s)
	}
	return q, true
}

func (q query) path() string {
	names := make([]string, len(q))
	for i, s := range q {
		if s.descend {
			return ""
		}
		names[i] = s.name
	}
	return strings.Join(names, ".")
}

func (q query) eval(root yaml.MapSlice) []interface{} {
	nodes := []interface{}{root}
	for _, s := range q {
		var next []interface{}
		for _, n := range nodes {
			if s.descend {
				next = append(next, descendants(n, s.name)...)
			} else {
				next = append(next, children(n, s.name)...)
			}
		}
		nodes = next
	}
	return nodes
}

func (s step) matches(key interface{}) bool {
	return s.name == wildcard || key == s.name
}

func children(n interface{}, name string) []interface{} {
	m, ok := n.(yaml.MapSlice)
	if !ok {
		return nil
	}
	s := step{name: name}
	var res []interface{}
	for _, item := range m {
		if s.matches(item.Key) {
			res = append(res, item.Value)
		}
	}
	return res
}

// descendants walks n in pre-order.
func descendants(n interface{}, name string) []interface{} {
	m, ok := n.(yaml.MapSlice)
	if !ok {
		return nil
	}
	s := step{name: name}
	var res []interface{}
	for _, item := range m {
		if s.matches(item.Key) {
			res = append(res, item.Value)
		}
		res = append(res, descendants(item.Value, name)...)
	}
	return res
}

// plain turns inner nodes into nested maps so callers never share the
// document held by Options.
func plain(n interface{}) interface{} {
	m, ok := n.(yaml.MapSlice)
	if !ok {
		return n
	}
	res := make(map[string]interface{}, len(m))
	for _, item := range m {
		res[item.Key.(string)] = plain(item.Value)
	}
	return res
}

// Get returns the first value selected by the path expression expr, such as
// "$.kubernetes.paths.root". Inner nodes come back as map[string]interface{}.
func (o *Options) Get(expr string) (interface{}, bool) {
	all := o.GetAll(expr)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// GetAll returns every value selected by expr, in document order.
// "$..paths.root" selects the root of each paths group.
func (o *Options) GetAll(expr string) []interface{} {
	res := []interface{}{}
	q, ok := parseQuery(expr)
	if !ok {
		logger.Debugf("invalid path expression [%s]", expr)
		return res
	}
	for _, n := range q.eval(o.doc) {
		res = append(res, plain(n))
	}
	return res
}

// GetString is Get for leaves.
func (o *Options) GetString(expr string) string {
	v, ok := o.Get(expr)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
