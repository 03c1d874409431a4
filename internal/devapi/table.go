package devapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"staffdash/internal/domain"
	"staffdash/internal/listing"
)

// listRequest is a parsed list query
type listRequest struct {
	search    string
	status    string
	sortField string
	direction listing.Direction
	take      int
	page      int
}

// fieldError is a rejection tied to one request field
type fieldError struct {
	Field string
	Msg   string
}

func (e fieldError) Error() string { return e.Field + ": " + e.Msg }

// table is one in-memory collection of records
type table[T domain.Record] struct {
	rows     []T
	matches  func(rec T, search, status string) bool
	sorters  map[string]func(a, b T) int
	validate func(rec T) error
	withID   func(rec T, id string) T

	// The hooks below run with the store locked. resolve fills references
	// named in a create or update body. saved and removed keep the other
	// tables' back-references in step.
	resolve func(rec T, body []byte) (T, error)
	saved   func(rec T)
	removed func(id string)
}

// save stores rec after resolving the references in body
func (t *table[T]) save(rec T, body []byte) (T, error) {
	if t.resolve != nil {
		var err error
		if rec, err = t.resolve(rec, body); err != nil {
			return rec, err
		}
	}
	t.put(rec)
	if t.saved != nil {
		t.saved(rec)
	}
	return rec, nil
}

// delete removes the record with id and its back-references
func (t *table[T]) delete(id string) bool {
	if !t.remove(id) {
		return false
	}
	if t.removed != nil {
		t.removed(id)
	}
	return true
}

func (t *table[T]) list(req listRequest) ([]T, int, int, error) {
	filtered := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		if t.matches(r, strings.ToLower(req.search), req.status) {
			filtered = append(filtered, r)
		}
	}

	if req.sortField != "" {
		cmp, ok := t.sorters[req.sortField]
		if !ok {
			return nil, 0, 0, fieldError{Field: "orderByField", Msg: fmt.Sprintf("cannot order by %q", req.sortField)}
		}
		sort.SliceStable(filtered, func(i, j int) bool {
			c := cmp(filtered[i], filtered[j])
			if req.direction == listing.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(filtered)
	page := listing.ClampPage(req.page, listing.LastPageFor(total, req.take))
	start := (page - 1) * req.take
	if start > total {
		start = total
	}
	end := start + req.take
	if end > total {
		end = total
	}
	return filtered[start:end], total, page, nil
}

func (t *table[T]) get(id string) (T, bool) {
	for _, r := range t.rows {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) put(rec T) {
	for i, r := range t.rows {
		if r.RecordID() == rec.RecordID() {
			t.rows[i] = rec
			return
		}
	}
	t.rows = append(t.rows, rec)
}

func (t *table[T]) remove(id string) bool {
	for i, r := range t.rows {
		if r.RecordID() == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// mergePatch overlays the JSON fields of patch on current. The id never changes.
func mergePatch[T any](current T, patch []byte) (T, error) {
	var out T
	base, err := json.Marshal(current)
	if err != nil {
		return out, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return out, err
	}
	changes := map[string]json.RawMessage{}
	if err := json.Unmarshal(patch, &changes); err != nil {
		return out, fieldError{Field: "body", Msg: "invalid JSON body"}
	}
	for k, v := range changes {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fieldError{Field: "body", Msg: err.Error()}
	}
	return out, nil
}

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func contains(s, lowerTerm string) bool {
	return lowerTerm == "" || strings.Contains(strings.ToLower(s), lowerTerm)
}
