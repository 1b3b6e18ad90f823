// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Query is a read against one backend table, encoded as PostgREST query
// parameters. Build it with From and the chainable methods:
//
//	backend.From("games").
//		Select("id", "slug", "title").
//		NotNull("map_image_url").
//		Order("title", true)
type Query struct {
	table   string
	columns []string
	filters []filter
	order   []string
	single  bool
}

type filter struct {
	column string
	expr   string
}

// From starts a query against table.
func From(table string) *Query {
	return &Query{table: table}
}

// Select sets the returned columns. Embedded resources use PostgREST
// syntax, e.g. "game:games!inner(id,slug,title)".
func (q *Query) Select(columns ...string) *Query {
	q.columns = append(q.columns, columns...)
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column string, value interface{}) *Query {
	q.filters = append(q.filters, filter{column: column, expr: "eq." + fmt.Sprint(value)})
	return q
}

// NotNull filters rows where column is not null.
func (q *Query) NotNull(column string) *Query {
	q.filters = append(q.filters, filter{column: column, expr: "not.is.null"})
	return q
}

// Order appends a sort key.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

// Single requests exactly one row. A miss is reported as ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Table returns the queried table.
func (q *Query) Table() string {
	return q.table
}

// IsSingle reports whether Single was requested.
func (q *Query) IsSingle() bool {
	return q.single
}

// Values returns the PostgREST query parameters.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if len(q.columns) > 0 {
		v.Set("select", strings.Join(q.columns, ","))
	}
	for _, f := range q.filters {
		v.Add(f.column, f.expr)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	return v
}

// String returns the table path with its encoded parameters, for logging.
func (q *Query) String() string {
	params := q.Values().Encode()
	if params == "" {
		return q.table
	}
	return q.table + "?" + params
}
