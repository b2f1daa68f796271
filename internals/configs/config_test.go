package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvList(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,172.16.0.1 ")
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, GetEnvList("TRUSTED_PROXIES"))

	t.Setenv("TRUSTED_PROXIES", "")
	assert.Empty(t, GetEnvList("TRUSTED_PROXIES"))
}

func TestLoadEnvTrustedProxiesDefaultEmpty(t *testing.T) {
	t.Setenv("RAILWAY_ENVIRONMENT", "test")
	t.Setenv("TRUSTED_PROXIES", "")
	LoadEnv()
	assert.Empty(t, TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.1.2.3")
	LoadEnv()
	assert.Equal(t, []string{"10.1.2.3"}, TrustedProxies)
}
