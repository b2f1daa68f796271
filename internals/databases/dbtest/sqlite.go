// Package dbtest membuka database SQLite in-memory untuk test store GORM.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	billModel "kostku_backend/internals/features/billing/bills/model"
	paymentModel "kostku_backend/internals/features/payments/midtrans/model"
	propertyModel "kostku_backend/internals/features/properties/model"
	roomModel "kostku_backend/internals/features/rooms/model"
	tenantModel "kostku_backend/internals/features/tenants/model"
	authModel "kostku_backend/internals/features/users/auth/model"
)

var seq atomic.Int64

// AllModels = semua tabel aplikasi, urut sesuai dependensi.
func AllModels() []any {
	return []any{
		&authModel.UserModel{},
		&authModel.TokenBlacklist{},
		&propertyModel.PropertyModel{},
		&tenantModel.TenantModel{},
		&roomModel.RoomModel{},
		&billModel.BillModel{},
		&paymentModel.BillPaymentModel{},
	}
}

// Open membuat DB in-memory baru per test dan menjalankan AutoMigrate.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}
