package dom

import "testing"

type fakeElement struct {
	tag    string
	attrs  map[string]string
	parent *fakeElement
}

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Parent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *fakeElement) TagName() string { return e.tag }

func TestEventTypeAttribute(t *testing.T) {
	cases := []struct {
		event EventType
		attr  string
	}{
		{event: Click, attr: "data-action"},
		{event: Change, attr: "data-on-change"},
		{event: Input, attr: "data-on-input"},
		{event: Submit, attr: "data-on-submit"},
		{event: KeyDown, attr: "data-on-keydown"},
	}
	for _, tc := range cases {
		got, ok := tc.event.Attribute()
		if !ok || got != tc.attr {
			t.Fatalf("%s: expected %q got %q (ok=%v)", tc.event, tc.attr, got, ok)
		}
	}
	if _, ok := EventType("focus").Attribute(); ok {
		t.Fatalf("focus should not be delegated")
	}
}

func TestClosestIsInclusive(t *testing.T) {
	button := &fakeElement{tag: "button", attrs: map[string]string{"data-action": "save"}}
	span := &fakeElement{tag: "span", attrs: map[string]string{}, parent: button}

	if got := Closest(span, ActionAttr); got != Element(button) {
		t.Fatalf("expected button ancestor, got %v", got)
	}
	if got := Closest(button, ActionAttr); got != Element(button) {
		t.Fatalf("expected element itself, got %v", got)
	}
	if got := Closest(span, OnChangeAttr); got != nil {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestDatasetConversions(t *testing.T) {
	cases := []struct {
		key  string
		attr string
	}{
		{key: "matchId", attr: "data-match-id"},
		{key: "action", attr: "data-action"},
		{key: "onKeydown", attr: "data-on-keydown"},
	}
	for _, tc := range cases {
		if got := DatasetAttr(tc.key); got != tc.attr {
			t.Fatalf("DatasetAttr(%q): expected %q got %q", tc.key, tc.attr, got)
		}
		if got := DatasetKey(tc.attr); got != tc.key {
			t.Fatalf("DatasetKey(%q): expected %q got %q", tc.attr, tc.key, got)
		}
	}
	if got := DatasetKey("class"); got != "" {
		t.Fatalf("expected empty key for non-data attribute, got %q", got)
	}
}

func TestDatasetReadsAttribute(t *testing.T) {
	el := &fakeElement{tag: "button", attrs: map[string]string{"data-match-id": "7"}}
	if v, ok := Dataset(el, "matchId"); !ok || v != "7" {
		t.Fatalf("expected 7, got %q (ok=%v)", v, ok)
	}
	if _, ok := Dataset(nil, "matchId"); ok {
		t.Fatalf("nil element should not report a value")
	}
}

type nativeElement struct {
	fakeElement
	calls int
}

func (e *nativeElement) ClosestWithAttr(attr string) Element {
	e.calls++
	return e
}

func TestClosestPrefersNativeLookup(t *testing.T) {
	el := &nativeElement{fakeElement: fakeElement{tag: "button"}}
	if got := Closest(el, ActionAttr); got != Element(el) || el.calls != 1 {
		t.Fatalf("expected native lookup to be used once, calls=%d", el.calls)
	}
	if Closest(nil, ActionAttr) != nil {
		t.Fatalf("expected nil for nil element")
	}
}
