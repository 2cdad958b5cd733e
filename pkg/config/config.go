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
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	HTTP    HTTPConfig
	Scan    ScanConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env        string // development, production
	Name       string
	LogLevel   string
	SeedDemo   bool     // agrega datos demo si el catálogo está vacío
	Categories []string // categorías ofrecidas en el formulario (la lógica las trata como texto)
	FeedSize   int      // notificaciones retenidas para la presentación
}

// Storage drivers soportados.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig backend del catálogo persistido.
type StorageConfig struct {
	Driver string // file | memory | postgres
	Dir    string // directorio para el driver file
	Key    string // clave bajo la que se guarda el catálogo
}

// DBConfig configuración de PostgreSQL (solo con STORAGE_DRIVER=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig servidor local de presentación (solo loopback por defecto).
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ScanConfig parámetros del coordinador de escaneo.
type ScanConfig struct {
	Enabled       bool
	MinConfidence float64       // lecturas con confianza menor se descartan
	IdleTimeout   time.Duration // 0 = sin límite
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORAGE_DRIVER, SCAN_MIN_CONFIDENCE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			Name:       getString(v, "APP_NAME", "inventario-local"),
			LogLevel:   getString(v, "LOG_LEVEL", "info"),
			SeedDemo:   getBool(v, "APP_SEED_DEMO", false),
			Categories: getList(v, "INVENTORY_CATEGORIES", []string{"Refrigerated", "Frozen", "Noodles", "Snacks", "Beverages", "Seasonings", "Rice & Grains", "Household"}),
			FeedSize:   getInt(v, "NOTIFY_FEED_SIZE", 50),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", StorageFile)),
			Dir:    getString(v, "STORAGE_DIR", "./data"),
			Key:    getString(v, "STORAGE_KEY", "koreanMarketInventory"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventario_local"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Scan: ScanConfig{
			Enabled:       getBool(v, "SCANNER_ENABLED", true),
			MinConfidence: getFloat(v, "SCAN_MIN_CONFIDENCE", 20),
			IdleTimeout:   time.Duration(getInt(v, "SCAN_IDLE_TIMEOUT_SECONDS", 0)) * time.Second,
		},
	}
	return cfg, cfg.Validate()
}

// Validate verifica combinaciones inválidas.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_DRIVER %q no soportado (file, memory, postgres)", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("STORAGE_KEY vacío")
	}
	if !(c.Scan.MinConfidence > 0 && c.Scan.MinConfidence <= 100) {
		return fmt.Errorf("SCAN_MIN_CONFIDENCE debe ser mayor que 0 y como máximo 100")
	}
	if c.Scan.IdleTimeout < 0 {
		return fmt.Errorf("SCAN_IDLE_TIMEOUT_SECONDS no puede ser negativo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return n
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
