package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config agrupa la configuración del servidor de estoque (lectura vía Viper desde env y .env).
type Config struct {
	App       AppConfig
	DB        DBConfig
	Storage   StorageConfig
	Socket    SocketConfig
	HTTP      HTTPConfig
	Inventory InventoryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoSchema  bool // ejecuta schema.sql (idempotente) al arrancar
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

// StorageConfig selecciona el backend de catálogo y ledger.
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" validate:"oneof=postgres memory"`
}

// SocketConfig configuración del servidor de comandos por socket.
type SocketConfig struct {
	Host            string
	Port            int           `env:"SOCKET_PORT" validate:"min=0,max=65535"`
	MaxConnections  int           `env:"SOCKET_MAX_CONNECTIONS" validate:"gt=0"`
	RequestTimeout  time.Duration `env:"SOCKET_REQUEST_TIMEOUT" validate:"gt=0"`
	MaxRequestBytes int           `env:"SOCKET_MAX_REQUEST_BYTES" validate:"gt=0"`
}

// Addr devuelve la dirección de escucha (host:port).
func (c SocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HTTPConfig configuración del gateway HTTP (opcional).
type HTTPConfig struct {
	Enabled bool
	Host    string
	Port    int `env:"HTTP_PORT" validate:"min=0,max=65535"`
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InventoryConfig reglas configurables del motor de movimientos.
type InventoryConfig struct {
	// AllowNegativeStock permite que una salida deje el stock por debajo de cero (comportamiento histórico).
	AllowNegativeStock bool
	// LenientTimestamps sustituye fechas inválidas por "ahora" en vez de rechazar el movimiento.
	LenientTimestamps bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SOCKET_PORT, etc.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe .env

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "estoque-server"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "estoque"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			AutoSchema:  getBool(v, "DB_AUTO_SCHEMA", false),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", StorageDriverPostgres)),
		},
		Socket: SocketConfig{
			Host:            getString(v, "SOCKET_HOST", "0.0.0.0"),
			Port:            getInt(v, "SOCKET_PORT", 1234),
			MaxConnections:  getInt(v, "SOCKET_MAX_CONNECTIONS", 64),
			RequestTimeout:  getDuration(v, "SOCKET_REQUEST_TIMEOUT", 10*time.Second),
			MaxRequestBytes: getInt(v, "SOCKET_MAX_REQUEST_BYTES", 1<<20),
		},
		HTTP: HTTPConfig{
			Enabled: getBool(v, "HTTP_ENABLED", false),
			Host:    getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:    getInt(v, "HTTP_PORT", 8080),
		},
		Inventory: InventoryConfig{
			AllowNegativeStock: getBool(v, "INVENTORY_ALLOW_NEGATIVE_STOCK", true),
			LenientTimestamps:  getBool(v, "INVENTORY_LENIENT_TIMESTAMPS", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator usa el tag env como nombre de campo en los errores.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate verifica combinaciones que impedirían arrancar el servidor.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s inválido (%s=%s): %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	if c.Storage.Driver == StorageDriverPostgres && (c.DB.MaxConns <= 0 || c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns) {
		errs = append(errs, errors.New("DB_MAX_CONNS/DB_MIN_CONNS inválidos"))
	}
	return errors.Join(errs...)
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration acepta "15s", "2m" o un entero en segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
