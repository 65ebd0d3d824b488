package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/vmihailenco/msgpack/v5"
)

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for constructing query strings or request bodies.
type Params map[string]any

// FileData represents a file to be uploaded in multipart form data
type FileData struct {
	Filename string
	Content  []byte
}

// ToQuery serializes the Params into a URL-encoded query string.
// This is useful for read-style requests where parameters travel in the URL.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// ToBody serializes the Params into a JSON-encoded io.Reader,
// suitable for use as the body of an HTTP POST, PUT, or PATCH request.
func (pr *Params) ToBody() (io.Reader, error) {
	buffer, err := json.Marshal(*pr)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// ToMsgpackBody serializes the Params into a MessagePack-encoded io.Reader.
// Selected by the materializer when the resolved content type is
// application/x-msgpack.
func (pr *Params) ToMsgpackBody() (io.Reader, error) {
	buffer, err := msgpack.Marshal(map[string]any(*pr))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// MultipartFormData represents the result of ToMultipartFormData()
type MultipartFormData struct {
	Body        io.Reader
	ContentType string
}

// ToMultipartFormData serializes the Params into multipart/form-data format.
// Files should be provided as FileData values in the Params map.
// Returns a MultipartFormData struct containing the body and content type.
func (pr *Params) ToMultipartFormData() (*MultipartFormData, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range *pr {
		switch v := value.(type) {
		case FileData:
			fileWriter, err := writer.CreateFormFile(key, v.Filename)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file for %s: %w", key, err)
			}
			if _, err := fileWriter.Write(v.Content); err != nil {
				return nil, fmt.Errorf("failed to write file content for %s: %w", key, err)
			}
		case []byte:
			// Raw byte data becomes a file part without a filename
			fileWriter, err := writer.CreateFormFile(key, key)
			if err != nil {
				return nil, fmt.Errorf("failed to create form file for %s: %w", key, err)
			}
			if _, err := fileWriter.Write(v); err != nil {
				return nil, fmt.Errorf("failed to write byte content for %s: %w", key, err)
			}
		default:
			if err := writer.WriteField(key, fmt.Sprintf("%v", value)); err != nil {
				return nil, fmt.Errorf("failed to write field %s: %w", key, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &MultipartFormData{
		Body:        &body,
		ContentType: writer.FormDataContentType(),
	}, nil
}

// Update merges another Params map into the original Params.
// Keys that already exist keep their value unless override is set.
func (pr *Params) Update(other Params, override bool) {
	for key, value := range other {
		if _, exists := (*pr)[key]; exists && !override {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

// FromStruct converts any struct to Params while maintaining the json tags
// as keys. Fields are extracted with reflection, avoiding a JSON
// marshal/unmarshal round trip.
func (pr *Params) FromStruct(obj any) error {
	if obj == nil {
		return nil
	}
	for key, value := range structToMap(obj) {
		(*pr)[key] = value
	}
	return nil
}

// NewParamsFromStruct creates a new Params map from any struct, respecting
// json tags.
func NewParamsFromStruct(obj any) (Params, error) {
	params := make(Params)
	if obj == nil {
		return params, nil
	}
	err := params.FromStruct(obj)
	return params, err
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Filler is a generic interface for filling a struct or slice of structs.
type Filler interface {
	// Fill populates the given container with data from the implementing type.
	// The container can be a pointer to a struct (for Record),
	// or a pointer to a slice of structs (for RecordSet).
	Fill(container any) error
}

// Record represents a single generic data object as a key-value map.
// It's commonly used to unmarshal a single JSON object from an API response.
// When a response is empty (e.g., 204 No Content), an empty Record{} is returned.
type Record map[string]any

// RecordSet represents a list of Record objects.
// It is typically used to represent responses containing multiple items.
type RecordSet []Record

// RecordUnion defines a union of supported record types for generic operations.
type RecordUnion interface {
	Record | RecordSet
}

// Fill populates the exported fields of the given struct pointer using
// values from the Record. Decoding goes through FlexibleUnmarshal, so
// common type mismatches (number vs string) are tolerated.
//
// The target container must be a non-nil pointer to a struct.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return FlexibleUnmarshal(raw, container)
}

// ToJSONValue lifts the record into the tagged JSON value model.
func (r Record) ToJSONValue() JSONValue {
	return Construct(map[string]any(r))
}

// SetMissingValue If the key is not present in the Record, set it to the provided value
func (r Record) SetMissingValue(key string, value any) {
	if _, exists := r[key]; !exists {
		r[key] = value
	}
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys) // keep consistent order
	for _, key := range keys {
		if val := r[key]; val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs (or of
// pointers to structs). Each Record is decoded into one element.
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr

	var targetType reflect.Type
	if isPtrElem {
		if elemType.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be pointer to a struct")
		}
		targetType = elemType.Elem()
	} else {
		if elemType.Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be a struct")
		}
		targetType = elemType
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n") // separate entries with a blank line
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(rs, "", indent[0])
	} else {
		b, err = json.Marshal(rs)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

const customRawKey = "@raw" // used to store raw non-object values in Record

// unmarshalToRecordUnion parses an HTTP response body into one of the
// supported record types:
// - Record: a map representing a single JSON object (empty Record{} for empty responses or 204 No Content).
// - RecordSet: a slice of Records representing a JSON array.
//
// It inspects the first non-whitespace character of the response body to
// decide between the two. Non-object JSON payloads are wrapped in a Record
// under the customRawKey.
func unmarshalToRecordUnion(response *http.Response) (Renderable, error) {
	defer response.Body.Close()

	if response.ContentLength == 0 || response.StatusCode == http.StatusNoContent {
		return Record{}, nil
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Record{}, nil
	}
	switch trimmed[0] {
	case '{': // JSON object
		var rec Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case '[': // JSON array
		var recSet RecordSet
		if err := json.Unmarshal(body, &recSet); err == nil {
			return recSet, nil
		}
		// Could be an array of scalars; wrap each item
		var anySlice []any
		if err := json.Unmarshal(body, &anySlice); err != nil {
			return nil, err
		}
		recordSet := make(RecordSet, len(anySlice))
		for i, item := range anySlice {
			recordSet[i] = Record{customRawKey: item}
		}
		return recordSet, nil
	case '"': // string
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		return Record{customRawKey: s}, nil
	default:
		return nil, fmt.Errorf("unsupported JSON format: must be object or array")
	}
}

// typeMatch checks whether the dynamic type of the given Renderable value
// matches the generic type T at runtime.
func typeMatch[T RecordUnion](val Renderable) bool {
	var zero T
	return reflect.TypeOf(val) == reflect.TypeOf(zero)
}
