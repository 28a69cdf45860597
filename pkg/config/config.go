package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Shopify  ShopifyConfig
	Sync     SyncConfig
	Security SecurityConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env             string // development, staging, production
	Name            string
	LogLevel        string
	BaseURL         string // URL pública, se usa para construir el redirect_uri de OAuth
	DefaultCurrency string // moneda cuando el pedido no trae una válida
	Timezone        string // zona horaria de los rangos de fecha ("" = local del servidor)
}

// Location devuelve la zona horaria configurada; si no es válida usa la local.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool // aplica las migraciones embebidas al arrancar
	MaxConns    int
	MinConns    int
	ForceIPv4   bool // contenedores sin salida IPv6
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma el connection string escapando caracteres especiales de la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShopifyConfig credenciales de la app y parámetros del cliente REST.
type ShopifyConfig struct {
	APIKey         string
	APISecret      string
	Scopes         string
	APIVersion     string
	Endpoint       string // "https://%s" por defecto; %s se reemplaza por el dominio de la tienda
	RetryCount     int
	RequestTimeout time.Duration
}

// SyncConfig pausas entre llamadas remotas durante la sincronización de precios.
type SyncConfig struct {
	Timeout      time.Duration
	PageDelay    time.Duration
	ProductDelay time.Duration
	ItemDelay    time.Duration
}

// SecurityConfig clave para cifrar los access tokens guardados.
type SecurityConfig struct {
	TokenKey string
	// RequireToken exige el Bearer emitido en el callback; sin él, ?shop= basta para
	// leer los datos de cualquier tienda instalada. Por defecto activo en producción.
	RequireToken bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SHOPIFY_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:             env,
			Name:            getString(v, "APP_NAME", "shopify-profit-api"),
			LogLevel:        getString(v, "LOG_LEVEL", "info"),
			BaseURL:         strings.TrimRight(getString(v, "APP_BASE_URL", "http://localhost:8080"), "/"),
			DefaultCurrency: strings.ToUpper(getString(v, "DEFAULT_CURRENCY", "NPR")),
			Timezone:        getString(v, "APP_TIMEZONE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "shopify_profit"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			MinConns:    getInt(v, "DB_MIN_CONNS", 1),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "shopify-profit-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Shopify: ShopifyConfig{
			APIKey:         getString(v, "SHOPIFY_API_KEY", ""),
			APISecret:      getString(v, "SHOPIFY_API_SECRET", ""),
			Scopes:         getString(v, "SHOPIFY_SCOPES", "read_orders,read_locations,read_products,read_inventory,read_price_rules,read_discounts"),
			APIVersion:     getString(v, "SHOPIFY_API_VERSION", "2024-10"),
			Endpoint:       getString(v, "SHOPIFY_ENDPOINT", "https://%s"),
			RetryCount:     getInt(v, "SHOPIFY_RETRY_COUNT", 3),
			RequestTimeout: getDuration(v, "SHOPIFY_REQUEST_TIMEOUT", 30*time.Second),
		},
		Sync: SyncConfig{
			Timeout:      getDuration(v, "SYNC_TIMEOUT", 5*time.Minute),
			PageDelay:    getDuration(v, "SYNC_PAGE_DELAY", 300*time.Millisecond),
			ProductDelay: getDuration(v, "SYNC_PRODUCT_DELAY", 100*time.Millisecond),
			ItemDelay:    getDuration(v, "SYNC_ITEM_DELAY", 200*time.Millisecond),
		},
		Security: SecurityConfig{
			TokenKey:     getString(v, "TOKEN_ENCRYPTION_KEY", ""),
			RequireToken: getBool(v, "AUTH_REQUIRE_TOKEN", env == "production"),
		},
	}

	if cfg.Security.TokenKey == "" {
		cfg.Security.TokenKey = cfg.JWT.Secret
	}
	if cfg.App.Env == "production" {
		if cfg.JWT.Secret == "" {
			return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
		}
		if cfg.Shopify.APIKey == "" || cfg.Shopify.APISecret == "" {
			return nil, fmt.Errorf("config: SHOPIFY_API_KEY y SHOPIFY_API_SECRET son obligatorios en producción")
		}
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "300ms", "5m" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
