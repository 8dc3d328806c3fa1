package pressroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/auth"
	"github.com/eringen/pressroom/kv"
)

func TestSiteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SiteConfig)
		wantErr string
	}{
		{"complete", func(*SiteConfig) {}, ""},
		{"hash instead of password", func(c *SiteConfig) {
			c.AdminPassword = ""
			c.AdminPasswordHash = "$2a$10$abc"
		}, ""},
		{"no password", func(c *SiteConfig) { c.AdminPassword = "" }, "AdminPassword or AdminPasswordHash is required"},
		{"short passcode", func(c *SiteConfig) { c.AdminPasscode = "123" }, "AdminPasscode"},
		{"letters in passcode", func(c *SiteConfig) { c.AdminPasscode = "12345a" }, "AdminPasscode"},
		{"no secret", func(c *SiteConfig) { c.SessionSecret = "" }, "SessionSecret is required"},
		{"unknown storage", func(c *SiteConfig) { c.Storage = "s3" }, `unknown storage "s3"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, auth.DefaultSessionTTL, cfg.SessionTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestAuthenticatorPrefersHash(t *testing.T) {
	hash, err := auth.HashPassword("from-hash")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AdminPasswordHash = string(hash)
	a := cfg.authenticator()
	assert.True(t, a.Authenticate(testUser, "from-hash"))
	assert.False(t, a.Authenticate(testUser, testPassword))
	assert.True(t, a.VerifyPasscode(testPasscode))
}

func TestOpenBackend(t *testing.T) {
	b, err := OpenBackend(SiteConfig{Storage: StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &kv.Memory{}, b)
	require.NoError(t, b.Close())

	_, err = OpenBackend(SiteConfig{Storage: "tape"})
	assert.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://blog.example.com", nil, "https://blog.example.com"},
		{"https://blog.example.com", []string{"posts"}, "https://blog.example.com/posts/"},
		{"https://blog.example.com/", []string{"blog", "hello-world"}, "https://blog.example.com/blog/hello-world/"},
		{"https://example.com/sub", []string{"page", "about-us"}, "https://example.com/sub/page/about-us/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...))
	}
}
