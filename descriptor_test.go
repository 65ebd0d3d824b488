package apiclient

import (
	"net/http"
	"reflect"
	"testing"
)

func testEndpoint(template string) StaticEndpoint {
	return StaticEndpoint{
		Template: template,
		Base:     "https://api.example.com",
		Auth:     AuthNone(),
	}
}

func mustMaterialize(t *testing.T, d Descriptor) *WireRequest {
	t.Helper()
	wire, err := Materialize(d)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	return wire
}

func TestDescriptor_ImplicitGet(t *testing.T) {
	d := NewRequest(testEndpoint("/users"))
	if d.Method() != http.MethodGet {
		t.Fatalf("Method = %s, want GET", d.Method())
	}
}

func TestDescriptor_VerbConstructors(t *testing.T) {
	ep := testEndpoint("/users")
	tests := []struct {
		d    Descriptor
		want string
	}{
		{Get(ep), http.MethodGet},
		{Post(ep), http.MethodPost},
		{Put(ep), http.MethodPut},
		{Patch(ep), http.MethodPatch},
		{Head(ep), http.MethodHead},
		{Delete(ep), http.MethodDelete},
	}
	for _, tt := range tests {
		if got := tt.d.Method(); got != tt.want {
			t.Errorf("Method = %s, want %s", got, tt.want)
		}
	}
}

func TestDescriptor_WithDoesNotMutateReceiver(t *testing.T) {
	base := Post(testEndpoint("/users"))
	before := mustMaterialize(t, base)

	derived := base.
		With(HeaderOverride("X-Env", "staging")).
		With(ContentTypeOverride(ContentTypeTextPlain)).
		Fill()
	_ = derived

	after := mustMaterialize(t, base)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("descriptor observable change after With chain:\nbefore %+v\nafter  %+v", before, after)
	}
	if after.Header.Get("X-Env") != "" {
		t.Fatal("directive leaked into the original descriptor")
	}
}

func TestDescriptor_FlatteningLaw(t *testing.T) {
	ep := testEndpoint("/items")
	a := HeaderOverride("X-A", "1")
	b := URLParams(Params{"q": "term"})

	chained := Get(ep).With(a).With(b)
	batched := Get(ep).With(a, b)

	wireChained := mustMaterialize(t, chained)
	wireBatched := mustMaterialize(t, batched)
	if !reflect.DeepEqual(wireChained, wireBatched) {
		t.Fatalf("flattening violated:\nchained %+v\nbatched %+v", wireChained, wireBatched)
	}
}

func TestDescriptor_FlatteningPreservesEarlierValue(t *testing.T) {
	ep := testEndpoint("/items")
	// Appending onto a parameter layer must not disturb previously
	// returned descriptors.
	first := Get(ep).With(HeaderOverride("X-A", "1"))
	second := first.With(HeaderOverride("X-B", "2"))

	wireFirst := mustMaterialize(t, first)
	if wireFirst.Header.Get("X-B") != "" {
		t.Fatal("second With leaked into first descriptor")
	}
	wireSecond := mustMaterialize(t, second)
	if wireSecond.Header.Get("X-A") != "1" || wireSecond.Header.Get("X-B") != "2" {
		t.Fatalf("second descriptor lost directives: %+v", wireSecond.Header)
	}
}

func TestDescriptor_ContentTypeResolution(t *testing.T) {
	ep := StaticEndpoint{
		Template:    "/things",
		Base:        "https://api.example.com",
		ContentType: ContentTypeTextPlain,
		Auth:        AuthNone(),
	}

	// No override: endpoint default.
	wire := mustMaterialize(t, Get(ep))
	if got := wire.Header.Get(HeaderContentType); got != ContentTypeTextPlain {
		t.Fatalf("Content-Type = %q, want endpoint default", got)
	}

	// Outermost override wins over an inner one.
	d := Get(ep).
		With(ContentTypeOverride(ContentTypeJSON)).
		Fill().
		With(ContentTypeOverride(ContentTypeMsgpack))
	wire = mustMaterialize(t, d)
	if got := wire.Header.Get(HeaderContentType); got != ContentTypeMsgpack {
		t.Fatalf("Content-Type = %q, want outermost override", got)
	}
}

func TestDescriptor_AuthResolution(t *testing.T) {
	ep := StaticEndpoint{
		Template: "/secure",
		Base:     "https://api.example.com",
		Auth:     AuthBearer("default-token"),
	}

	// Default mode applies with no override.
	wire := mustMaterialize(t, Get(ep))
	if got := wire.Header.Get(HeaderAuthorization); got != "Bearer default-token" {
		t.Fatalf("Authorization = %q, want default bearer", got)
	}

	// The nearest (outermost) override wins.
	d := Get(ep).
		With(AuthOverride(AuthBearer("inner"))).
		Fill().
		With(AuthOverride(AuthBasic("u", "p")))
	wire = mustMaterialize(t, d)
	if got := wire.Header.Get(HeaderAuthorization); got != "Basic dTpw" {
		t.Fatalf("Authorization = %q, want Basic dTpw", got)
	}
}

func TestDescriptor_HeadersAccumulate(t *testing.T) {
	ep := testEndpoint("/multi")
	d := Get(ep).
		With(HeaderOverride("X-One", "1")).
		Fill().
		With(HeaderOverride("X-Two", "2"), HeaderOverride("X-One", "override"))
	wire := mustMaterialize(t, d)

	// Every HeaderOverride contributes; the layer added last wins on
	// duplicate names.
	if got := wire.Header.Get("X-Two"); got != "2" {
		t.Fatalf("X-Two = %q", got)
	}
	if got := wire.Header.Get("X-One"); got != "override" {
		t.Fatalf("X-One = %q, want outermost value", got)
	}
}

func TestDescriptor_EndpointReachableThroughWrappers(t *testing.T) {
	ep := testEndpoint("/deep")
	d := Get(ep).Fill("a").With(HeaderOverride("X", "y")).Fill("b")
	if got := d.Endpoint().PathTemplate(); got != "/deep" {
		t.Fatalf("Endpoint().PathTemplate() = %q", got)
	}
	if d.Method() != http.MethodGet {
		t.Fatalf("Method = %s", d.Method())
	}
}

func TestPairs_LastWriteWins(t *testing.T) {
	d := Pairs(Pair{"a", 1}, Pair{"b", 2}, Pair{"a", 3})
	if got := d.urlParams["a"]; got != 3 {
		t.Fatalf("Pairs duplicate key = %v, want 3", got)
	}
	if got := d.urlParams["b"]; got != 2 {
		t.Fatalf("Pairs[b] = %v", got)
	}
}
