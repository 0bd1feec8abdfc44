package factory

import "testing"

type widget struct{ Size int }

type widgetConf struct {
	Size int `json:"size"`
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*widget]()
	if err := reg.Register("widget", func(conf map[string]any) (*widget, error) {
		var c widgetConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &widget{Size: c.Size}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "widget", Conf: map[string]any{"size": 7}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Size != 7 {
		t.Fatalf("expected 7 got %d", inst.Size)
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestDecodeRejectsMismatchedTypes(t *testing.T) {
	var c widgetConf
	if err := Decode(map[string]any{"size": "not a number"}, &c); err == nil {
		t.Fatal("expected decode error")
	}
}
