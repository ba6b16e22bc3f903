// Package query translates URL query strings into MongoDB filter documents
// and find options. Reserved parameters (page, sort, limit, fields) control
// the shape of the result set; everything else becomes filter criteria.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultLimit applies when the client sends no limit parameter.
	DefaultLimit = 100
	// MaxLimit caps the page size regardless of what the client asks for.
	MaxLimit = 500
	// DefaultSort orders newest first when no sort parameter is given.
	DefaultSort = "-createdAt"
	// DefaultPage is the first page.
	DefaultPage = 1
)

// reserved parameters never appear in the filter document.
var reserved = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// comparison suffixes recognized in bracket notation, e.g. price[gte]=500.
var operators = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Builder assembles a Mongo filter and find options from URL query values.
// Stages mutate the builder and return it so callers can chain:
//
//	q := query.New(values, scope).Filter().Sort().Select().Paginate()
//	filter, opts := q.Definition()
type Builder struct {
	values url.Values
	filter bson.M
	opts   *options.FindOptions
}

// New creates a Builder over values. Entries of base are copied into the
// filter first; client-supplied criteria never overwrite them, so callers
// can pin scope conditions the client cannot lift.
func New(values url.Values, base bson.M) *Builder {
	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}
	return &Builder{
		values: values,
		filter: filter,
		opts:   options.Find(),
	}
}

// Filter folds every non-reserved parameter into the filter document.
// Plain parameters become equality matches. Bracket notation maps to
// comparison operators: duration[gte]=5 yields {duration: {$gte: 5}}.
// Numeric-looking values are compared as numbers.
func (b *Builder) Filter() *Builder {
	for key, vals := range b.values {
		if len(vals) == 0 {
			continue
		}
		field, op := splitOperator(key)
		if _, ok := reserved[field]; ok {
			continue
		}
		if _, pinned := b.filter[field]; pinned && op == "" {
			continue
		}
		value := coerce(vals[0])
		if op == "" {
			b.filter[field] = value
			continue
		}
		sub, ok := b.filter[field].(bson.M)
		if !ok {
			if _, pinned := b.filter[field]; pinned {
				continue
			}
			sub = bson.M{}
			b.filter[field] = sub
		}
		sub[op] = value
	}
	return b
}

// Sort applies the sort parameter, a comma-separated field list where a
// leading '-' means descending. Defaults to newest first.
func (b *Builder) Sort() *Builder {
	raw := b.values.Get("sort")
	if raw == "" {
		raw = DefaultSort
	}
	sort := bson.D{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := int32(1)
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		if field == "" {
			continue
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if len(sort) > 0 {
		b.opts.SetSort(sort)
	}
	return b
}

// Select applies the fields parameter as an inclusion projection. Without
// one, only the internal revision counter is excluded.
func (b *Builder) Select() *Builder {
	raw := b.values.Get("fields")
	if raw == "" {
		b.opts.SetProjection(bson.M{"revision": 0})
		return b
	}
	projection := bson.M{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		projection[field] = 1
	}
	if len(projection) > 0 {
		b.opts.SetProjection(projection)
	}
	return b
}

// Paginate applies page and limit. Page numbers start at 1; the limit is
// clamped to MaxLimit. Skip is (page-1)*limit.
func (b *Builder) Paginate() *Builder {
	page := positiveInt(b.values.Get("page"), DefaultPage)
	limit := positiveInt(b.values.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	b.opts.SetSkip(int64(page-1) * int64(limit))
	b.opts.SetLimit(int64(limit))
	return b
}

// Definition returns the assembled filter and find options.
func (b *Builder) Definition() (bson.M, *options.FindOptions) {
	return b.filter, b.opts
}

// splitOperator recognizes bracket notation. "price[gte]" yields
// ("price", "$gte"); keys without a known operator come back unchanged.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	name := key[open+1 : len(key)-1]
	mapped, ok := operators[name]
	if !ok {
		return key, ""
	}
	return key[:open], mapped
}

// coerce converts numeric strings so comparisons work against numeric
// fields. Everything else stays a string.
func coerce(v string) interface{} {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func positiveInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
