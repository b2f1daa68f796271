package helper

import "github.com/bytedance/sonic"

// PatchField tri-state untuk PATCH: tidak dikirim / null / ada nilai.
type PatchField[T any] struct {
	Set   bool `json:"-"`
	Null  bool `json:"-"`
	Value *T   `json:"-"`
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Null = true
		p.Value = nil
		return nil
	}
	var v T
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// Has = dikirim dengan nilai (bukan null).
func (p PatchField[T]) Has() bool { return p.Set && !p.Null && p.Value != nil }
