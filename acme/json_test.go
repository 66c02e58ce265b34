package acme

import "testing"

func TestJSONValueGetString(t *testing.T) {
	body := []byte(`{"newAccount":"https://acme.example/acct","meta":{"termsOfService":"https://acme.example/tos"}}`)
	v, err := ParseJSONValue(body)
	if err != nil {
		t.Fatalf("ParseJSONValue: %v", err)
	}

	if got, ok := v.GetString("newAccount"); !ok || got != "https://acme.example/acct" {
		t.Errorf("GetString(newAccount) = %q, %v", got, ok)
	}
	if got, ok := v.GetString("meta", "termsOfService"); !ok || got != "https://acme.example/tos" {
		t.Errorf("GetString(meta, termsOfService) = %q, %v", got, ok)
	}
	if _, ok := v.GetString("meta", "missing"); ok {
		t.Error("GetString should report missing nested key as absent")
	}
	if _, ok := v.GetString("newAccount", "tooDeep"); ok {
		t.Error("GetString should fail when an intermediate segment isn't an object")
	}
}

func TestParseJSONValueEmptyBody(t *testing.T) {
	if _, err := ParseJSONValue(nil); err != ErrNotJSON {
		t.Errorf("expected ErrNotJSON for empty body, got %v", err)
	}
	if _, err := ParseJSONValue([]byte("   ")); err != ErrNotJSON {
		t.Errorf("expected ErrNotJSON for blank body, got %v", err)
	}
}

func TestParseJSONValueMalformedIsNotErrNotJSON(t *testing.T) {
	_, err := ParseJSONValue([]byte(`{"truncated`))
	if err == nil || err == ErrNotJSON {
		t.Errorf("expected a genuine decode error, got %v", err)
	}
}

func TestParseJSONResponseFallsBackOnNonJSONContentType(t *testing.T) {
	_, err := ParseJSONResponse("application/octet-stream", []byte("not json at all"))
	if err != ErrNotJSON {
		t.Errorf("expected ErrNotJSON for non-JSON content type, got %v", err)
	}
}

func TestParseJSONResponseMalformedJSONContentType(t *testing.T) {
	_, err := ParseJSONResponse("application/json", []byte(`{"truncated`))
	if err == nil || err == ErrNotJSON {
		t.Errorf("a JSON content type with malformed body should be a real decode error, got %v", err)
	}
}

func TestJSONValueCloneIsIndependent(t *testing.T) {
	v, err := ParseJSONValue([]byte(`{"a":"b"}`))
	if err != nil {
		t.Fatal(err)
	}
	clone := v.Clone()
	clone.v["a"] = "mutated"
	if got, _ := v.GetString("a"); got != "b" {
		t.Errorf("mutating a clone affected the original: %q", got)
	}
}

func TestJSONValueMarshalCompact(t *testing.T) {
	v, err := ParseJSONValue([]byte(`{"a":"b"}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := v.MarshalCompact()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":"b"}` {
		t.Errorf("MarshalCompact = %s", out)
	}
}
