package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRoomNotFound      = errors.New("kamar tidak ditemukan")
	ErrBillNotFound      = errors.New("tagihan tidak ditemukan")
	ErrForbidden         = errors.New("tidak punya akses ke kamar/tagihan ini")
	ErrDuplicatePaidBill = errors.New("penghuni sudah punya tagihan lunas untuk periode ini")
	ErrPaidBillConflict  = errors.New("sudah ada tagihan lunas lain untuk penghuni dan periode ini")
)

// ValidationError mengumpulkan semua pelanggaran sekaligus: {field: [rule, ...]}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ","))
	}
	return "validasi gagal: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, rule string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	for _, r := range e.Fields[field] {
		if r == rule {
			return
		}
	}
	e.Fields[field] = append(e.Fields[field], rule)
}

// Merge menggabungkan hasil validator struct (tag) dengan cek semantik.
func (e *ValidationError) Merge(fields map[string][]string) {
	for f, rules := range fields {
		for _, r := range rules {
			e.Add(f, r)
		}
	}
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
