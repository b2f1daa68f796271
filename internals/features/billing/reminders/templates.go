// Package reminders merender pesan tagihan (WhatsApp, Telegram, email) dan
// menjalankan job pengingat tagihan yang belum lunas.
package reminders

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"kostku_backend/internals/features/billing/exports"
)

//go:embed templates.yaml
var defaultTemplates []byte

type TemplateSet struct {
	WhatsApp     string `yaml:"whatsapp"`
	Telegram     string `yaml:"telegram"`
	EmailSubject string `yaml:"email_subject"`
	EmailBody    string `yaml:"email_body"`
}

type executor interface {
	Execute(w io.Writer, data any) error
}

// Telegram (ParseMode HTML) dan body email memakai html/template supaya nama
// penghuni/properti/kamar di-escape; WhatsApp dan subject tetap teks biasa.
type Templates struct {
	whatsapp     executor
	telegram     executor
	emailSubject executor
	emailBody    executor
}

// LoadTemplates memuat template bawaan lalu menimpa field yang diisi di file override (boleh kosong).
func LoadTemplates(overridePath string) (*Templates, error) {
	var set TemplateSet
	if err := yaml.Unmarshal(defaultTemplates, &set); err != nil {
		return nil, fmt.Errorf("template bawaan rusak: %w", err)
	}

	if overridePath != "" {
		raw, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, err
		}
		var over TemplateSet
		if err := yaml.Unmarshal(raw, &over); err != nil {
			return nil, fmt.Errorf("parse %s: %w", overridePath, err)
		}
		if over.WhatsApp != "" {
			set.WhatsApp = over.WhatsApp
		}
		if over.Telegram != "" {
			set.Telegram = over.Telegram
		}
		if over.EmailSubject != "" {
			set.EmailSubject = over.EmailSubject
		}
		if over.EmailBody != "" {
			set.EmailBody = over.EmailBody
		}
	}
	return Compile(set)
}

func Compile(set TemplateSet) (*Templates, error) {
	whatsapp, err := template.New("whatsapp").Parse(set.WhatsApp)
	if err != nil {
		return nil, err
	}
	telegram, err := htmltemplate.New("telegram").Parse(set.Telegram)
	if err != nil {
		return nil, err
	}
	subject, err := template.New("email_subject").Parse(set.EmailSubject)
	if err != nil {
		return nil, err
	}
	body, err := htmltemplate.New("email_body").Parse(set.EmailBody)
	if err != nil {
		return nil, err
	}
	return &Templates{
		whatsapp:     whatsapp,
		telegram:     telegram,
		emailSubject: subject,
		emailBody:    body,
	}, nil
}

// MessageData = nilai yang tersedia di template.
type MessageData struct {
	TenantName     string
	PropertyName   string
	RoomName       string
	Period         string
	ProrationNote  string
	ConsumptionKwh int64
	RoomPrice      string
	UsageCost      string
	WaterFee       string
	TrashFee       string
	AdditionalCost string
	Total          string
	HasTrashFee    bool
	HasAdditional  bool
	IsPaid         bool
}

func NewMessageData(s *exports.Statement) MessageData {
	b := s.Bill
	name := s.TenantName
	if name == "" {
		name = "Penghuni"
	}
	return MessageData{
		TenantName:     name,
		PropertyName:   s.PropertyName,
		RoomName:       s.RoomName,
		Period:         s.PeriodLabel(),
		ProrationNote:  s.ProrationNote(),
		ConsumptionKwh: b.BillConsumptionKwh,
		RoomPrice:      exports.FormatRupiah(b.BillRoomPrice),
		UsageCost:      exports.FormatRupiah(b.BillUsageCost),
		WaterFee:       exports.FormatRupiah(b.BillWaterFee),
		TrashFee:       exports.FormatRupiah(b.BillTrashFee),
		AdditionalCost: exports.FormatRupiah(b.BillAdditionalCost),
		Total:          exports.FormatRupiah(b.BillTotalAmount),
		HasTrashFee:    !b.BillTrashFee.IsZero(),
		HasAdditional:  !b.BillAdditionalCost.IsZero(),
		IsPaid:         b.BillIsPaid,
	}
}

func render(t executor, data MessageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Message = satu pesan siap kirim, semua channel.
type Message struct {
	WhatsApp     string
	Telegram     string
	EmailSubject string
	EmailBody    string
}

func (t *Templates) Render(s *exports.Statement) (Message, error) {
	data := NewMessageData(s)
	var (
		m   Message
		err error
	)
	if m.WhatsApp, err = render(t.whatsapp, data); err != nil {
		return Message{}, err
	}
	if m.Telegram, err = render(t.telegram, data); err != nil {
		return Message{}, err
	}
	if m.EmailSubject, err = render(t.emailSubject, data); err != nil {
		return Message{}, err
	}
	if m.EmailBody, err = render(t.emailBody, data); err != nil {
		return Message{}, err
	}
	return m, nil
}
