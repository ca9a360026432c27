package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/books-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Known body keys in reporting order.
const (
	keyTitle         = "title"
	keyAuthor        = "author"
	keyGenres        = "genres"
	keyPublishedYear = "publishedYear"
	keyStock         = "stock"
)

var bookKeys = []string{keyTitle, keyAuthor, keyGenres, keyPublishedYear, keyStock}

// number is satisfied by the number types the decoder produces in UseNumber mode.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// report collects violations per key so they can be emitted in a stable order.
type report struct {
	byKey   map[string][]string
	unknown []string
	value   []string
}

func newReport() *report {
	return &report{byKey: make(map[string][]string)}
}

func (r *report) add(key, format string, args ...any) {
	r.byKey[key] = append(r.byKey[key], fmt.Sprintf(format, args...))
}

func (r *report) has(key string) bool {
	return len(r.byKey[key]) > 0
}

func (r *report) err() error {
	var msgs []string
	for _, key := range bookKeys {
		msgs = append(msgs, r.byKey[key]...)
	}
	sort.Strings(r.unknown)
	for _, key := range r.unknown {
		msgs = append(msgs, fmt.Sprintf("%q is not allowed", key))
	}
	msgs = append(msgs, r.value...)
	if len(msgs) == 0 {
		return nil
	}
	return &Error{Messages: msgs}
}

// DecodeCreateBook reads a create request body and validates it against
// CreateBookSchema. It returns ErrInvalidJSON for malformed JSON,
// ErrBodyTooLarge when a capped reader overflows, and an
// *Error listing every violation otherwise.
func DecodeCreateBook(body io.Reader) (domain.BookFields, error) {
	var schema CreateBookSchema
	present, rep, err := decodeInto(body, &schema.Title, &schema.Author, &schema.Genres,
		&schema.PublishedYear, &schema.Stock)
	if err != nil {
		return domain.BookFields{}, err
	}
	if rep.value == nil {
		collectSchemaErrors(validate.Struct(schema), rep, present)
	}
	if err := rep.err(); err != nil {
		return domain.BookFields{}, err
	}
	return schema.Fields(), nil
}

// DecodeUpdateBook reads an update request body and validates it against
// UpdateBookSchema.
func DecodeUpdateBook(body io.Reader) (domain.BookPatch, error) {
	var schema UpdateBookSchema
	present, rep, err := decodeInto(body, &schema.Title, &schema.Author, &schema.Genres,
		&schema.PublishedYear, &schema.Stock)
	if err != nil {
		return domain.BookPatch{}, err
	}
	if rep.value == nil {
		collectSchemaErrors(validate.Struct(schema), rep, present)
	}
	if err := rep.err(); err != nil {
		return domain.BookPatch{}, err
	}
	return schema.Patch(), nil
}

// decodeInto parses the body as a JSON object and fills the typed targets
// for every key whose value has the right JSON shape.
func decodeInto(
	body io.Reader,
	title, author **string,
	genres **[]string,
	publishedYear, stock **int,
) (map[string]bool, *report, error) {
	rep := newReport()

	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return nil, nil, ErrInvalidJSON
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		rep.value = append(rep.value, `"value" must be of type object`)
		return nil, rep, nil
	}

	present := make(map[string]bool, len(obj))
	for key, val := range obj {
		present[key] = true
		switch key {
		case keyTitle:
			*title = decodeString(rep, key, val)
		case keyAuthor:
			*author = decodeString(rep, key, val)
		case keyGenres:
			*genres = decodeStrings(rep, key, val)
		case keyPublishedYear:
			*publishedYear = decodeInt(rep, key, val)
		case keyStock:
			*stock = decodeInt(rep, key, val)
		default:
			rep.unknown = append(rep.unknown, key)
		}
	}
	return present, rep, nil
}

func decodeString(rep *report, key string, val any) *string {
	s, ok := val.(string)
	if !ok {
		rep.add(key, "%q must be a string", key)
		return nil
	}
	return &s
}

func decodeStrings(rep *report, key string, val any) *[]string {
	items, ok := val.([]any)
	if !ok {
		rep.add(key, "%q must be an array", key)
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			rep.add(key, "%q must be a string", key+"["+strconv.Itoa(i)+"]")
			continue
		}
		out = append(out, s)
	}
	if rep.has(key) {
		return nil
	}
	return &out
}

// maxSafeInteger bounds integers to values every JSON client can represent exactly.
const maxSafeInteger = 1<<53 - 1

func decodeInt(rep *report, key string, val any) *int {
	var f float64
	switch n := val.(type) {
	case number:
		if i, err := n.Int64(); err == nil {
			if i > maxSafeInteger || i < -maxSafeInteger {
				rep.add(key, "%q must be a safe number", key)
				return nil
			}
			v := int(i)
			return &v
		}
		parsed, err := n.Float64()
		if err != nil {
			rep.add(key, "%q must be a number", key)
			return nil
		}
		f = parsed
	case float64:
		f = n
	default:
		rep.add(key, "%q must be a number", key)
		return nil
	}

	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		rep.add(key, "%q must be an integer", key)
		return nil
	}
	if f > maxSafeInteger || f < -maxSafeInteger {
		rep.add(key, "%q must be a safe number", key)
		return nil
	}
	v := int(f)
	return &v
}

// collectSchemaErrors translates validator errors into report entries.
// Keys that already failed the shape check are not reported twice, and the
// at-least-one rule is satisfied by any known key present in the body.
func collectSchemaErrors(err error, rep *report, present map[string]bool) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		rep.value = append(rep.value, fmt.Sprintf(`"value" %v`, err))
		return
	}

	for _, fe := range fieldErrs {
		key := fe.Field()
		if fe.Tag() == tagAtLeastOne {
			if !anyKnownKey(present) {
				rep.value = append(rep.value, atLeastOneMessage())
			}
			continue
		}
		if rep.has(key) || (present[key] && fe.Tag() == "required") {
			continue
		}
		rep.add(key, "%s", fieldMessage(fe))
	}
}

func anyKnownKey(present map[string]bool) bool {
	for _, key := range bookKeys {
		if present[key] {
			return true
		}
	}
	return false
}
