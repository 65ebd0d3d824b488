package apiclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func responseWithBody(status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(strings.NewReader(body)),
	}
}

func TestParams_ToQuery(t *testing.T) {
	params := Params{"a": 1, "b": "two"}
	query := params.ToQuery()
	expectQueryValue(t, query, "a", "1")
	expectQueryValue(t, query, "b", "two")
}

func TestParams_ToBody(t *testing.T) {
	params := Params{"name": "box"}
	reader, err := params.ToBody()
	if err != nil {
		t.Fatalf("ToBody: %v", err)
	}
	raw, _ := io.ReadAll(reader)
	if string(raw) != `{"name":"box"}` {
		t.Fatalf("body = %s", raw)
	}
}

func TestParams_ToMsgpackBody(t *testing.T) {
	params := Params{"n": 7}
	reader, err := params.ToMsgpackBody()
	if err != nil {
		t.Fatalf("ToMsgpackBody: %v", err)
	}
	raw, _ := io.ReadAll(reader)
	var decoded map[string]any
	if err := msgpack.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("not msgpack: %v", err)
	}
	if _, ok := decoded["n"]; !ok {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestParams_ToMultipartFormData(t *testing.T) {
	params := Params{
		"field": "value",
		"file":  FileData{Filename: "a.bin", Content: []byte{1, 2}},
	}
	form, err := params.ToMultipartFormData()
	if err != nil {
		t.Fatalf("ToMultipartFormData: %v", err)
	}
	mediaType, mtParams, err := mime.ParseMediaType(form.ContentType)
	if err != nil || mediaType != ContentTypeMultipartForm {
		t.Fatalf("content type = %q (%v)", form.ContentType, err)
	}

	body, _ := io.ReadAll(form.Body)
	reader := multipart.NewReader(bytes.NewReader(body), mtParams["boundary"])
	seen := map[string]bool{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		seen[part.FormName()] = true
	}
	if !seen["field"] || !seen["file"] {
		t.Fatalf("parts seen = %v", seen)
	}
}

func TestParams_UpdateAndWithout(t *testing.T) {
	params := Params{"keep": 1, "both": "old"}
	params.Update(Params{"both": "new", "added": true}, false)
	if params["both"] != "old" || params["added"] != true {
		t.Fatalf("Update without override = %v", params)
	}
	params.Update(Params{"both": "new"}, true)
	if params["both"] != "new" {
		t.Fatalf("Update with override = %v", params)
	}
	params.Without("keep", "missing")
	if _, ok := params["keep"]; ok {
		t.Fatal("Without left the key")
	}
}

func TestNewParamsFromStruct(t *testing.T) {
	type body struct {
		Name  string `json:"name"`
		Age   int    `json:"age,omitempty"`
		Skip  string `json:"-"`
		unexp string
	}
	params, err := NewParamsFromStruct(body{Name: "alice", Skip: "x", unexp: "y"})
	if err != nil {
		t.Fatalf("NewParamsFromStruct: %v", err)
	}
	want := Params{"name": "alice"}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
}

func TestRecord_Fill(t *testing.T) {
	type user struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	// The numeric id must flexibly convert into the string field.
	record := Record{"name": "alice", "id": 42}
	var u user
	if err := record.Fill(&u); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if u.Name != "alice" || u.ID != "42" {
		t.Fatalf("filled = %+v", u)
	}

	if err := record.Fill(user{}); err == nil {
		t.Fatal("Fill accepted a non-pointer container")
	}
}

func TestRecordSet_Fill(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	rs := RecordSet{{"name": "a"}, {"name": "b"}}

	var values []item
	if err := rs.Fill(&values); err != nil {
		t.Fatalf("Fill slice: %v", err)
	}
	if len(values) != 2 || values[1].Name != "b" {
		t.Fatalf("filled = %+v", values)
	}

	var ptrs []*item
	if err := rs.Fill(&ptrs); err != nil {
		t.Fatalf("Fill ptr slice: %v", err)
	}
	if len(ptrs) != 2 || ptrs[0].Name != "a" {
		t.Fatalf("filled = %+v", ptrs)
	}
}

func TestRecord_ToJSONValue(t *testing.T) {
	record := Record{"name": "alice", "n": 2}
	v := record.ToJSONValue()
	if v.Kind() != KindMapping {
		t.Fatalf("kind = %s", v.Kind())
	}
	if name, ok := GetAs[string](v, "name"); !ok || name != "alice" {
		t.Fatalf("name = (%q, %v)", name, ok)
	}
}

func TestUnmarshalToRecordUnion(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		wantKind string
		check    func(t *testing.T, result Renderable)
	}{
		{
			name:   "object",
			body:   `{"id": 1}`,
			status: http.StatusOK,
			check: func(t *testing.T, result Renderable) {
				record, ok := result.(Record)
				if !ok || record["id"] != float64(1) {
					t.Fatalf("result = %#v", result)
				}
			},
		},
		{
			name:   "array of objects",
			body:   `[{"id": 1}, {"id": 2}]`,
			status: http.StatusOK,
			check: func(t *testing.T, result Renderable) {
				rs, ok := result.(RecordSet)
				if !ok || len(rs) != 2 {
					t.Fatalf("result = %#v", result)
				}
			},
		},
		{
			name:   "array of scalars wrapped",
			body:   `[1, 2]`,
			status: http.StatusOK,
			check: func(t *testing.T, result Renderable) {
				rs, ok := result.(RecordSet)
				if !ok || len(rs) != 2 || rs[0][customRawKey] != float64(1) {
					t.Fatalf("result = %#v", result)
				}
			},
		},
		{
			name:   "bare string wrapped",
			body:   `"ok"`,
			status: http.StatusOK,
			check: func(t *testing.T, result Renderable) {
				record, ok := result.(Record)
				if !ok || record[customRawKey] != "ok" {
					t.Fatalf("result = %#v", result)
				}
			},
		},
		{
			name:   "empty body",
			body:   "",
			status: http.StatusNoContent,
			check: func(t *testing.T, result Renderable) {
				record, ok := result.(Record)
				if !ok || !record.Empty() {
					t.Fatalf("result = %#v", result)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := unmarshalToRecordUnion(responseWithBody(tt.status, tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, result)
		})
	}

	if _, err := unmarshalToRecordUnion(responseWithBody(http.StatusOK, "12")); err == nil {
		t.Fatal("bare number accepted")
	}
}

func TestRecord_PrettyRendering(t *testing.T) {
	record := Record{"id": 1, "name": "alice"}
	table := record.PrettyTable()
	if !strings.Contains(table, "name") || !strings.Contains(table, "alice") {
		t.Fatalf("table missing attrs:\n%s", table)
	}
	if got := (Record{}).PrettyTable(); got != "<>" {
		t.Fatalf("empty table = %q", got)
	}
	if got := (RecordSet{}).PrettyTable(); got != "[]" {
		t.Fatalf("empty set table = %q", got)
	}
	if !strings.Contains(record.PrettyJson("  "), "\"name\": \"alice\"") {
		t.Fatal("PrettyJson not indented")
	}
}

func TestTypeMatch(t *testing.T) {
	if !typeMatch[Record](Record{}) {
		t.Fatal("Record did not match Record")
	}
	if typeMatch[RecordSet](Record{}) {
		t.Fatal("Record matched RecordSet")
	}
}
