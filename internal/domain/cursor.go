package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultPageSize = 5

// SortField is one parsed "column_ASC" / "column_DESC" order spec.
type SortField struct {
	Column string
	Desc   bool
}

func (f SortField) spec() string {
	if f.Desc {
		return f.Column + "_DESC"
	}
	return f.Column + "_ASC"
}

// Cursor is the decoded form of the opaque pagination token. It holds
// the sort-column values of the last row of the previous page together
// with the order specs that page sequence was started with, so a token
// stays valid regardless of what order the follow-up request claims.
type Cursor struct {
	Values map[string]any `json:"values"`
	Order  []string       `json:"order"`
}

// Keyset drives one paginated query: a total order over the row set
// (the id tiebreaker is always appended) plus the position to resume
// from, if any.
type Keyset struct {
	Fields   []SortField
	Cursor   *Cursor
	PageSize int
	columns  map[string]string
}

// NewKeyset validates order specs against the column whitelist and
// decodes the cursor token. When a cursor is present its embedded
// order wins over the request's order parameters.
func NewKeyset(order []string, cursor string, pageSize int, columns map[string]string) (*Keyset, error) {
	k := &Keyset{PageSize: pageSize, columns: columns}
	if k.PageSize <= 0 {
		k.PageSize = DefaultPageSize
	}

	if cursor != "" {
		c, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		k.Cursor = c
		order = c.Order
	}

	if len(order) == 0 {
		order = []string{"id_ASC"}
	}

	for _, spec := range order {
		field, err := parseSortField(spec)
		if err != nil {
			return nil, err
		}
		if _, ok := columns[field.Column]; !ok {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidSort, field.Column)
		}
		k.Fields = append(k.Fields, field)
	}

	// An always-unique trailing column turns any user ordering into a
	// total order, so ties never skip or repeat rows across pages.
	hasID := false
	for _, f := range k.Fields {
		if f.Column == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		k.Fields = append(k.Fields, SortField{Column: "id"})
	}

	if k.Cursor != nil {
		for _, f := range k.Fields {
			if _, ok := k.Cursor.Values[f.Column]; !ok {
				return nil, fmt.Errorf("%w: missing value for %q", ErrInvalidCursor, f.Column)
			}
		}
	}

	return k, nil
}

func parseSortField(spec string) (SortField, error) {
	i := strings.LastIndex(spec, "_")
	if i <= 0 || i == len(spec)-1 {
		return SortField{}, fmt.Errorf("%w: %q", ErrInvalidSort, spec)
	}

	column, direction := spec[:i], spec[i+1:]

	switch direction {
	case "ASC":
		return SortField{Column: column}, nil
	case "DESC":
		return SortField{Column: column, Desc: true}, nil
	default:
		return SortField{}, fmt.Errorf("%w: %q", ErrInvalidSort, spec)
	}
}

func decodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var c Cursor
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.Values == nil || len(c.Order) == 0 {
		return nil, ErrInvalidCursor
	}

	return &c, nil
}

// OrderBy renders the ORDER BY column list for the given table alias.
func (k *Keyset) OrderBy(alias string) string {
	parts := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s.%s %s", alias, f.Column, dir)
	}
	return strings.Join(parts, ", ")
}

// WhereAfter renders the predicate selecting rows strictly after the
// cursor position under the combined ordering, as the nested AND/OR
// expansion of a lexicographic tuple comparison. It returns the clause,
// its arguments, and the next free placeholder index. The clause is
// empty when there is no cursor.
func (k *Keyset) WhereAfter(alias string, argIndex int) (string, []any, int) {
	if k.Cursor == nil {
		return "", nil, argIndex
	}

	args := make([]any, len(k.Fields))
	placeholders := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		args[i] = argString(k.Cursor.Values[f.Column])
		placeholders[i] = fmt.Sprintf("$%d::%s", argIndex+i, k.columns[f.Column])
	}

	last := len(k.Fields) - 1
	expr := fmt.Sprintf("%s.%s %s %s", alias, k.Fields[last].Column, cmpOp(k.Fields[last]), placeholders[last])

	for i := last - 1; i >= 0; i-- {
		expr = fmt.Sprintf("%s.%s %s %s OR (%s.%s = %s AND (%s))",
			alias, k.Fields[i].Column, cmpOp(k.Fields[i]), placeholders[i],
			alias, k.Fields[i].Column, placeholders[i],
			expr)
	}

	return "(" + expr + ")", args, argIndex + len(k.Fields)
}

func cmpOp(f SortField) string {
	if f.Desc {
		return "<"
	}
	return ">"
}

// Cursor values travel through JSON, so numbers come back as
// json.Number; everything is handed to the store as text and cast to
// the whitelisted column type inside the query.
func argString(v any) string {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// NextCursor encodes the sort-column values of the last returned row.
// The caller passes it only when a full page came back; a short page
// means the set is exhausted.
func (k *Keyset) NextCursor(values map[string]any) (string, error) {
	order := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		order[i] = f.spec()
	}

	raw, err := json.Marshal(Cursor{Values: values, Order: order})
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
