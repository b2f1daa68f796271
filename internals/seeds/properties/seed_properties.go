package properties

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	propertyModel "kostku_backend/internals/features/properties/model"
	roomModel "kostku_backend/internals/features/rooms/model"
	authModel "kostku_backend/internals/features/users/auth/model"
)

//go:embed data_properties.json
var defaultProperties []byte

type RoomSeed struct {
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	TrashService bool            `json:"trash_service"`
}

type PropertySeed struct {
	OwnerEmail string          `json:"owner_email"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	City       string          `json:"city"`
	CostPerKwh decimal.Decimal `json:"cost_per_kwh"`
	WaterFee   decimal.Decimal `json:"water_fee"`
	TrashFee   decimal.Decimal `json:"trash_fee"`
	Rooms      []RoomSeed      `json:"rooms"`
}

// SeedProperties: properti contoh + kamarnya. Pemilik harus sudah ada (jalankan seed user dulu).
func SeedProperties(db *gorm.DB, raw []byte) (int, error) {
	if len(raw) == 0 {
		raw = defaultProperties
	}
	var inputs []PropertySeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return 0, err
	}

	created := 0
	for _, in := range inputs {
		var owner authModel.UserModel
		if err := db.Where("LOWER(user_email) = ?", strings.ToLower(in.OwnerEmail)).Take(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return created, fmt.Errorf("owner %s belum ada", in.OwnerEmail)
			}
			return created, err
		}

		var n int64
		if err := db.Model(&propertyModel.PropertyModel{}).
			Where("property_owner_id = ? AND property_name = ?", owner.UserID, in.Name).
			Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			log.Info().Str("property", in.Name).Msg("ℹ️ properti sudah ada, dilewati")
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			p := propertyModel.PropertyModel{
				PropertyOwnerID:    owner.UserID,
				PropertyName:       in.Name,
				PropertyAddress:    &in.Address,
				PropertyCity:       &in.City,
				PropertyCostPerKwh: in.CostPerKwh,
				PropertyWaterFee:   in.WaterFee,
				PropertyTrashFee:   in.TrashFee,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			for _, r := range in.Rooms {
				room := roomModel.RoomModel{
					RoomPropertyID:   p.PropertyID,
					RoomName:         r.Name,
					RoomMonthlyPrice: r.MonthlyPrice,
					RoomTrashService: r.TrashService,
				}
				if err := tx.Create(&room).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return created, err
		}
		created++
		log.Info().Str("property", in.Name).Int("rooms", len(in.Rooms)).Msg("✅ properti dibuat")
	}
	return created, nil
}
