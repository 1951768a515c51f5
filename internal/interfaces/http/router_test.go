package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"noryx/internal/infrastructure/auth"
	"noryx/internal/infrastructure/config"
	"noryx/internal/infrastructure/database"
	"noryx/internal/infrastructure/panel"
	"noryx/internal/infrastructure/persistence/models"
	sharedConfig "noryx/internal/shared/config"
	"noryx/internal/shared/logger"
)

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	windowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

// fakePanelServer emulates the provider panel's login and inbound endpoints.
func fakePanelServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var addedEmails []string

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "test-session"})
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("/api/inbounds/list", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"obj":     []map[string]any{{"id": 7, "tag": "in-7", "protocol": "vless", "port": 443}},
		})
	})
	mux.HandleFunc("/api/inbounds/addClient", func(w http.ResponseWriter, r *http.Request) {
		var settings panel.ClientSettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&settings))
		addedEmails = append(addedEmails, settings.Email)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("/api/inbounds/delClient", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	mux.HandleFunc("/api/inbounds/getStats/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"obj":     map[string]any{"up": 11, "down": 22, "total": 33},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &addedEmails
}

func setupRouter(t *testing.T) (*Router, *gorm.DB, *[]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	panelServer, addedEmails := fakePanelServer(t)
	panelClient := panel.NewClient(&sharedConfig.PanelConfig{
		BaseURL:  panelServer.URL,
		AuthMode: "basic",
		Username: "admin",
		Password: "admin",
	}, logger.NewLogger())

	cfg := &config.Config{
		Auth: sharedConfig.AuthConfig{
			JWT:                 sharedConfig.JWTConfig{Secret: "test-jwt-secret", AccessExpMinutes: 60},
			AllowUserIDFallback: true,
		},
		Delivery: sharedConfig.DeliveryConfig{
			HMACSecret:       "test-hmac-secret",
			TokenTTLSeconds:  300,
			DefaultTrafficGB: 100,
		},
	}

	router := NewRouter(db, panelClient, cfg, logger.NewLogger())
	router.SetupRoutes()
	return router, db, addedEmails
}

func seedUserWithSubscription(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.UserModel{
		ID:       userID,
		Email:    "person@example.com",
		Username: "person",
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionModel{
		UserID:    userID,
		TariffID:  1,
		Status:    "active",
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(72 * time.Hour),
	}).Error)
}

func doJSON(router *Router, method, path, userAgent string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(rec, req)
	return rec
}

func TestConnect_MobileGetsDeepLinkAndPersistsIdentity(t *testing.T) {
	router, db, addedEmails := setupRouter(t)
	seedUserWithSubscription(t, db, 42)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA, map[string]any{"user_id": 42})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Platform string `json:"platform"`
			Format   string `json:"format"`
			DeepLink string `json:"deep_link"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ios", resp.Data.Platform)
	assert.Equal(t, "deep-link", resp.Data.Format)
	assert.True(t, strings.HasPrefix(resp.Data.DeepLink, "vless://"))

	require.Len(t, *addedEmails, 1)

	var model models.SubscriptionModel
	require.NoError(t, db.Where("user_id = ?", 42).First(&model).Error)
	require.NotNil(t, model.ProviderClientEmail)
	assert.Equal(t, (*addedEmails)[0], *model.ProviderClientEmail)
	require.NotNil(t, model.ProviderInboundID)
	assert.Equal(t, 7, *model.ProviderInboundID)
}

func TestConnect_SecondCallReusesIdentity(t *testing.T) {
	router, db, addedEmails := setupRouter(t)
	seedUserWithSubscription(t, db, 42)

	first := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA, map[string]any{"user_id": 42})
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA, map[string]any{"user_id": 42})
	require.Equal(t, http.StatusOK, second.Code)

	assert.Len(t, *addedEmails, 1, "one panel client total across repeat connects")
}

func TestConnect_AppliesRequestedCountry(t *testing.T) {
	router, db, _ := setupRouter(t)
	seedUserWithSubscription(t, db, 42)
	require.NoError(t, db.Create(&models.CountryModel{
		CountryCode: "nl", CountryName: "Netherlands", IsAvailable: true,
	}).Error)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA,
		map[string]any{"user_id": 42, "country_code": "nl"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			CountryCode string `json:"country_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "nl", resp.Data.CountryCode)

	var model models.SubscriptionModel
	require.NoError(t, db.Where("user_id = ?", 42).First(&model).Error)
	assert.Equal(t, "nl", model.CountryCode)

	var logged models.ConnectionLogModel
	require.NoError(t, db.Where("user_id = ?", 42).First(&logged).Error)
	assert.Equal(t, "nl", logged.CountryCode)
}

func TestConnect_UnknownCountryIs400(t *testing.T) {
	router, db, addedEmails := setupRouter(t)
	seedUserWithSubscription(t, db, 42)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA,
		map[string]any{"user_id": 42, "country_code": "xx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, *addedEmails, "no panel client for a rejected connect")
}

func TestConnect_NoSubscriptionIs404(t *testing.T) {
	router, db, _ := setupRouter(t)
	require.NoError(t, db.Create(&models.UserModel{ID: 9, Email: "bare@example.com"}).Error)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA, map[string]any{"user_id": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnect_WithoutAuthIs401(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", iphoneUA, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnect_BearerTokenAuth(t *testing.T) {
	router, db, _ := setupRouter(t)
	seedUserWithSubscription(t, db, 42)

	jwtService := auth.NewJWTService("test-jwt-secret", 60)
	bearer, err := jwtService.Generate(42, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/vpn/connect", bytes.NewReader(nil))
	req.Header.Set("User-Agent", iphoneUA)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestDownloadFlow_DesktopTokenRoundTrip(t *testing.T) {
	router, db, _ := setupRouter(t)
	seedUserWithSubscription(t, db, 42)

	rec := doJSON(router, http.MethodPost, "/api/vpn/connect", windowsUA, map[string]any{"user_id": 42})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Format      string `json:"format"`
			DownloadURL string `json:"download_url"`
			ExpiresIn   int    `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "file", resp.Data.Format)
	assert.Equal(t, 300, resp.Data.ExpiresIn)
	require.NotEmpty(t, resp.Data.DownloadURL)

	download := doJSON(router, http.MethodGet, resp.Data.DownloadURL, windowsUA, nil)
	require.Equal(t, http.StatusOK, download.Code)
	assert.Contains(t, download.Header().Get("Content-Disposition"), "noryx-vpn-config.conf")
	assert.True(t, strings.HasPrefix(download.Body.String(), "vless://"))

	// Tampering with the token yields the generic 403.
	tampered := resp.Data.DownloadURL[:len(resp.Data.DownloadURL)-2] + "xx"
	denied := doJSON(router, http.MethodGet, tampered, windowsUA, nil)
	assert.Equal(t, http.StatusForbidden, denied.Code)
}

func TestListCountries_IncludesAutomaticFirst(t *testing.T) {
	router, db, _ := setupRouter(t)
	require.NoError(t, db.Create(&models.CountryModel{
		CountryCode: "nl", CountryName: "Netherlands", FlagEmoji: "🇳🇱", IsAvailable: true, Priority: 10,
	}).Error)
	require.NoError(t, db.Create(&models.CountryModel{
		CountryCode: "us", CountryName: "United States", IsAvailable: false,
	}).Error)

	rec := doJSON(router, http.MethodGet, "/api/vpn/countries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2, "unavailable countries are hidden")
	assert.Equal(t, "auto", resp.Data[0].Code)
	assert.Equal(t, "nl", resp.Data[1].Code)
}

func TestChangeCountry(t *testing.T) {
	router, db, _ := setupRouter(t)
	seedUserWithSubscription(t, db, 42)
	require.NoError(t, db.Create(&models.CountryModel{
		CountryCode: "nl", CountryName: "Netherlands", IsAvailable: true,
	}).Error)

	rec := doJSON(router, http.MethodPost, "/api/vpn/change-country", "",
		map[string]any{"user_id": 42, "country_code": "nl"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var model models.SubscriptionModel
	require.NoError(t, db.Where("user_id = ?", 42).First(&model).Error)
	assert.Equal(t, "nl", model.CountryCode)

	denied := doJSON(router, http.MethodPost, "/api/vpn/change-country", "",
		map[string]any{"user_id": 42, "country_code": "xx"})
	assert.Equal(t, http.StatusBadRequest, denied.Code)
}

func TestAdminCleanup_RequiresAdminToken(t *testing.T) {
	router, _, _ := setupRouter(t)
	jwtService := auth.NewJWTService("test-jwt-secret", 60)

	// Plain user token is rejected.
	userToken, err := jwtService.Generate(42, false)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/vpn/admin/cleanup", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := jwtService.Generate(1, true)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/vpn/admin/cleanup", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.GetEngine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
