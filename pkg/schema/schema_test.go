package schema

import (
	"strings"
	"testing"
)

func TestCheckAcceptsWellFormedDescriptors(t *testing.T) {
	descriptors := []*Descriptor{
		{Type: TypeString},
		{Type: TypeBoolean},
		{Type: TypeNumber, Minimum: Float(0), Maximum: Float(10)},
		{Type: TypeInteger, Enum: []interface{}{1, 2, 3}},
		{Type: TypeString, MinLength: Int(1), MaxLength: Int(80), Pattern: `^[a-z]+$`},
		{Type: TypeArray, Items: &Descriptor{Type: TypeNumber}},
		Object(map[string]*Descriptor{
			"operation": {Type: TypeString, Enum: []interface{}{"add", "subtract"}},
			"a":         {Type: TypeNumber},
			"nested": Object(map[string]*Descriptor{
				"inner": {Type: TypeBoolean},
			}),
		}, "operation", "a"),
	}

	for i, d := range descriptors {
		if err := Check(d); err != nil {
			t.Errorf("descriptor %d: unexpected error: %v", i, err)
		}
	}
}

func TestCheckRejectsMalformedDescriptors(t *testing.T) {
	tests := []struct {
		name    string
		d       *Descriptor
		wantSub string
	}{
		{"nil descriptor", nil, "nil"},
		{"missing type", &Descriptor{}, "missing type"},
		{"unknown type", &Descriptor{Type: "tuple"}, "unknown type"},
		{"inverted bounds", &Descriptor{Type: TypeNumber, Minimum: Float(10), Maximum: Float(1)}, "exceeds maximum"},
		{"negative minLength", &Descriptor{Type: TypeString, MinLength: Int(-1)}, "minLength"},
		{"inverted lengths", &Descriptor{Type: TypeString, MinLength: Int(5), MaxLength: Int(2)}, "exceeds maxLength"},
		{"bad pattern", &Descriptor{Type: TypeString, Pattern: `([`}, "invalid pattern"},
		{"empty enum", &Descriptor{Type: TypeString, Enum: []interface{}{}}, "enum"},
		{
			"malformed nested property",
			Object(map[string]*Descriptor{"inner": {}}),
			"inner",
		},
		{
			"malformed items",
			&Descriptor{Type: TypeArray, Items: &Descriptor{Type: "maybe"}},
			"unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.d)
			if err == nil {
				t.Fatalf("Check(%v) succeeded, want error containing %q", tt.d, tt.wantSub)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Check error = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidateTypeChecks(t *testing.T) {
	tests := []struct {
		name  string
		d     *Descriptor
		value interface{}
		ok    bool
	}{
		{"string ok", &Descriptor{Type: TypeString}, "hello", true},
		{"string mismatch", &Descriptor{Type: TypeString}, 42, false},
		{"number from float", &Descriptor{Type: TypeNumber}, 3.5, true},
		{"number from int", &Descriptor{Type: TypeNumber}, 7, true},
		{"number mismatch", &Descriptor{Type: TypeNumber}, "7", false},
		{"integer ok", &Descriptor{Type: TypeInteger}, float64(4), true},
		{"integer rejects fraction", &Descriptor{Type: TypeInteger}, 4.5, false},
		{"boolean ok", &Descriptor{Type: TypeBoolean}, true, true},
		{"boolean mismatch", &Descriptor{Type: TypeBoolean}, "true", false},
		{"array ok", &Descriptor{Type: TypeArray}, []interface{}{1, 2}, true},
		{"array mismatch", &Descriptor{Type: TypeArray}, "1,2", false},
		{"object ok", &Descriptor{Type: TypeObject}, map[string]interface{}{}, true},
		{"object mismatch", &Descriptor{Type: TypeObject}, []interface{}{}, false},
		{"null is not string", &Descriptor{Type: TypeString}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.value, tt.d)
			if res.OK() != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (violations: %v)", tt.value, res.OK(), tt.ok, res.Violations)
			}
		})
	}
}

func TestValidateReportsEveryMissingRequiredProperty(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"operation": {Type: TypeString},
		"a":         {Type: TypeNumber},
		"b":         {Type: TypeNumber},
	}, "operation", "a", "b")

	res := Validate(map[string]interface{}{"operation": "add"}, d)
	if res.OK() {
		t.Fatal("expected validation failure for missing a and b")
	}
	if len(res.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %v", len(res.Violations), res.Violations)
	}

	paths := map[string]bool{}
	for _, v := range res.Violations {
		paths[v.Path] = true
		if v.Reason != "required property is missing" {
			t.Errorf("violation reason = %q", v.Reason)
		}
	}
	if !paths["a"] || !paths["b"] {
		t.Errorf("violations must name both a and b, got %v", res.Violations)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"operation": {Type: TypeString, Enum: []interface{}{"add", "subtract"}},
		"a":         {Type: TypeNumber, Minimum: Float(0)},
		"name":      {Type: TypeString, MinLength: Int(3)},
	}, "operation")

	value := map[string]interface{}{
		"operation": "divide",
		"a":         -1,
		"name":      "x",
	}
	res := Validate(value, d)
	if len(res.Violations) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(res.Violations), res.Violations)
	}
}

func TestValidateStringConstraints(t *testing.T) {
	d := &Descriptor{Type: TypeString, MinLength: Int(2), MaxLength: Int(4), Pattern: `^[a-z]+$`}

	if res := Validate("abc", d); !res.OK() {
		t.Errorf("abc should pass: %v", res.Violations)
	}
	if res := Validate("a", d); res.OK() {
		t.Error("too-short string should fail")
	}
	if res := Validate("abcde", d); res.OK() {
		t.Error("too-long string should fail")
	}
	if res := Validate("ABC", d); res.OK() {
		t.Error("pattern mismatch should fail")
	}
}

func TestValidateNumericBounds(t *testing.T) {
	d := &Descriptor{Type: TypeInteger, Minimum: Float(1), Maximum: Float(50)}

	if res := Validate(10, d); !res.OK() {
		t.Errorf("10 should pass: %v", res.Violations)
	}
	if res := Validate(0, d); res.OK() {
		t.Error("0 should fail minimum")
	}
	if res := Validate(51, d); res.OK() {
		t.Error("51 should fail maximum")
	}
}

func TestValidateEnumAcceptsEquivalentNumbers(t *testing.T) {
	d := &Descriptor{Type: TypeNumber, Enum: []interface{}{1, 2.5}}

	if res := Validate(float64(1), d); !res.OK() {
		t.Errorf("float64(1) should match int enum member 1: %v", res.Violations)
	}
	if res := Validate(2.5, d); !res.OK() {
		t.Errorf("2.5 should match: %v", res.Violations)
	}
	if res := Validate(3, d); res.OK() {
		t.Error("3 is not an enum member")
	}
}

func TestValidateFillsDefaultsBeforeChecks(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"units": {
			Type:    TypeString,
			Enum:    []interface{}{"celsius", "fahrenheit"},
			Default: "celsius",
		},
		"city": {Type: TypeString},
	}, "city", "units")

	// units is required but carries a default, so omitting it is fine.
	res := Validate(map[string]interface{}{"city": "London"}, d)
	if !res.OK() {
		t.Fatalf("default should satisfy required check: %v", res.Violations)
	}
}

func TestValidateNestedObjectsAndArrays(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"items": {Type: TypeArray, Items: &Descriptor{Type: TypeNumber}},
		"config": Object(map[string]*Descriptor{
			"workers": {Type: TypeInteger, Minimum: Float(1)},
		}),
	}, "items")

	bad := map[string]interface{}{
		"items":  []interface{}{1, "two", 3},
		"config": map[string]interface{}{"workers": 0},
	}
	res := Validate(bad, d)
	if len(res.Violations) != 2 {
		t.Fatalf("got %d violations, want 2: %v", len(res.Violations), res.Violations)
	}

	var sawItem, sawWorkers bool
	for _, v := range res.Violations {
		switch v.Path {
		case "items[1]":
			sawItem = true
		case "config.workers":
			sawWorkers = true
		}
	}
	if !sawItem || !sawWorkers {
		t.Errorf("violation paths should name items[1] and config.workers, got %v", res.Violations)
	}
}

func TestValidateUnknownPropertiesArePermitted(t *testing.T) {
	d := Object(map[string]*Descriptor{"message": {Type: TypeString}}, "message")

	res := Validate(map[string]interface{}{"message": "hi", "extra": 1}, d)
	if !res.OK() {
		t.Errorf("unknown properties must be permitted: %v", res.Violations)
	}
}

func TestValidateIsTotal(t *testing.T) {
	// None of these may panic, whatever the input.
	values := []interface{}{nil, 42, "x", []interface{}{nil}, map[string]interface{}{"k": func() {}}, struct{}{}}
	descriptors := []*Descriptor{
		nil,
		{Type: TypeObject},
		{Type: TypeArray, Items: &Descriptor{Type: TypeObject}},
		Object(map[string]*Descriptor{"k": {Type: TypeString}}, "k"),
	}

	for _, v := range values {
		for _, d := range descriptors {
			_ = Validate(v, d)
		}
	}
}

func TestApplyDefaultsDoesNotMutateInput(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"length": {Type: TypeString, Default: "medium"},
		"text":   {Type: TypeString},
	}, "text")

	in := map[string]interface{}{"text": "body"}
	out := ApplyDefaults(in, d)

	if _, mutated := in["length"]; mutated {
		t.Error("ApplyDefaults mutated its input")
	}
	obj, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("ApplyDefaults returned %T, want object", out)
	}
	if obj["length"] != "medium" {
		t.Errorf("default not filled: %v", obj)
	}
	if obj["text"] != "body" {
		t.Errorf("existing value clobbered: %v", obj)
	}
}

func TestApplyDefaultsRecursesIntoNestedObjects(t *testing.T) {
	d := Object(map[string]*Descriptor{
		"options": Object(map[string]*Descriptor{
			"verbose": {Type: TypeBoolean, Default: false},
		}),
	})

	out := ApplyDefaults(map[string]interface{}{
		"options": map[string]interface{}{},
	}, d)

	obj := out.(map[string]interface{})
	options := obj["options"].(map[string]interface{})
	if v, ok := options["verbose"]; !ok || v != false {
		t.Errorf("nested default not filled: %v", out)
	}
}
