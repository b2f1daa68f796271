package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	JWTSecret    string
	JWTAccessTTL time.Duration
	Port         string
	LogLevel     string

	TokenBlacklistTTLDays int

	MidtransServerKey string
	MidtransUseProd   bool

	NATSURL          string
	TelegramBotToken string
	SendgridAPIKey   string
	SendgridFrom     string
	ReminderCron     string
	ReminderTemplate string

	ProrationMode  string
	CORSOrigins    string
	TrustedProxies []string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Info().Msg("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Info().Msg("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTAccessTTL = time.Duration(GetEnvInt("JWT_ACCESS_TTL_HOURS", 24)) * time.Hour
	TokenBlacklistTTLDays = GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)
	Port = GetEnv("PORT", "8080")
	LogLevel = GetEnv("LOG_LEVEL", "info")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)

	NATSURL = GetEnv("NATS_URL")
	TelegramBotToken = GetEnv("TELEGRAM_BOT_TOKEN")
	SendgridAPIKey = GetEnv("SENDGRID_API_KEY")
	SendgridFrom = GetEnv("SENDGRID_FROM", "tagihan@kostku.id")
	ReminderCron = GetEnv("REMINDER_CRON", "0 9 * * *")
	ReminderTemplate = GetEnv("REMINDER_TEMPLATE_FILE")

	ProrationMode = GetEnv("BILLING_PRORATION_MODE", "first_month")
	CORSOrigins = GetEnv("CORS_ORIGINS", "*")
	// kosong = X-Forwarded-For diabaikan, IP diambil dari koneksi
	TrustedProxies = GetEnvList("TRUSTED_PROXIES")

	if JWTSecret == "" {
		log.Error().Msg("❌ JWT_SECRET belum diset!")
	}
	if MidtransServerKey == "" {
		log.Warn().Msg("MIDTRANS_SERVER_KEY kosong, pembayaran online nonaktif")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetEnvList memecah nilai dipisah koma, entri kosong dibuang.
func GetEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
