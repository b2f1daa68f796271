package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	billService "kostku_backend/internals/features/billing/bills/service"
	model "kostku_backend/internals/features/rooms/model"
)

// Kolom sheet import: name | price | trash_service | occupants (baris 1 = header).
type ImportRow struct {
	Line         int
	Name         string
	Price        decimal.Decimal
	TrashService bool
	Occupants    int
}

type ImportIssue struct {
	Line   int    `json:"line"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created []uuid.UUID   `json:"created"`
	Skipped []ImportIssue `json:"skipped"`
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "n", "no", "tidak", "false":
		return false, nil
	case "1", "y", "ya", "yes", "true":
		return true, nil
	}
	return false, fmt.Errorf("trash_service tidak dikenali: %q", s)
}

// parsePrice menerima "3000000", "3000000.50", "Rp 3.000.000".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "rp") {
		s = strings.TrimSpace(s[2:])
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("harga tidak valid: %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("harga harus > 0")
	}
	return d, nil
}

// ParseRoomSheet membaca sheet pertama. Baris bermasalah dikembalikan sebagai issue.
func ParseRoomSheet(r io.Reader) ([]ImportRow, []ImportIssue, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("file tidak punya sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		out    []ImportRow
		issues []ImportIssue
	)
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		line := i + 1
		get := func(idx int) string {
			if idx < len(cells) {
				return strings.TrimSpace(cells[idx])
			}
			return ""
		}
		name := model.NormalizeRoomName(get(0))
		if name == "" && get(1) == "" {
			continue
		}
		if name == "" {
			issues = append(issues, ImportIssue{Line: line, Reason: "nama kamar kosong"})
			continue
		}
		price, err := parsePrice(get(1))
		if err != nil {
			issues = append(issues, ImportIssue{Line: line, Name: name, Reason: err.Error()})
			continue
		}
		trash, err := parseBool(get(2))
		if err != nil {
			issues = append(issues, ImportIssue{Line: line, Name: name, Reason: err.Error()})
			continue
		}
		occ := 1
		if s := get(3); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				issues = append(issues, ImportIssue{Line: line, Name: name, Reason: "occupants harus bilangan >= 1"})
				continue
			}
			occ = n
		}
		out = append(out, ImportRow{Line: line, Name: name, Price: price, TrashService: trash, Occupants: occ})
	}
	return out, issues, nil
}

// ImportRooms membuat kamar baru di properti; nama yang sudah ada dilewati.
func (s *RoomService) ImportRooms(ctx context.Context, actor billService.Actor, propertyID uuid.UUID, r io.Reader) (*ImportResult, error) {
	if _, err := s.Property(ctx, actor, propertyID); err != nil {
		return nil, err
	}
	rows, issues, err := ParseRoomSheet(r)
	if err != nil {
		return nil, err
	}

	var existing []string
	if err := s.db.WithContext(ctx).Model(&model.RoomModel{}).
		Where("room_property_id = ?", propertyID).
		Pluck("room_name", &existing).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[strings.ToLower(n)] = true
	}

	res := &ImportResult{Created: []uuid.UUID{}, Skipped: issues}
	if res.Skipped == nil {
		res.Skipped = []ImportIssue{}
	}
	for _, row := range rows {
		key := strings.ToLower(row.Name)
		if seen[key] {
			res.Skipped = append(res.Skipped, ImportIssue{Line: row.Line, Name: row.Name, Reason: "nama kamar sudah ada"})
			continue
		}
		room := &model.RoomModel{
			RoomPropertyID:   propertyID,
			RoomName:         row.Name,
			RoomMonthlyPrice: row.Price,
			RoomTrashService: row.TrashService,
			RoomOccupants:    row.Occupants,
		}
		if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
			res.Skipped = append(res.Skipped, ImportIssue{Line: row.Line, Name: row.Name, Reason: err.Error()})
			continue
		}
		seen[key] = true
		res.Created = append(res.Created, room.RoomID)
	}

	log.Info().
		Str("property_id", propertyID.String()).
		Int("created", len(res.Created)).
		Int("skipped", len(res.Skipped)).
		Msg("[IMPORT] kamar")
	return res, nil
}
