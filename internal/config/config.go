package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. COMBATSIM_TICK_RATE.
const EnvPrefix = "COMBATSIM_"

// Storage drivers for weapon builds.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Simulation holds all configuration of the headless combat simulation.
type Simulation struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Fixed-step cadence
	TickRate int           `yaml:"tick_rate" env:"TICK_RATE"` // steps per second
	Realtime bool          `yaml:"realtime" env:"REALTIME"`
	RunFor   time.Duration `yaml:"run_for" env:"RUN_FOR"` // simulated time, 0 = until one side is wiped out
	Seed     uint64        `yaml:"seed" env:"SEED"`

	// WeaponsOverlay is an optional YAML patch over the built-in weapon table.
	WeaponsOverlay string `yaml:"weapons_overlay" env:"WEAPONS_OVERLAY"`

	Arena     Arena     `yaml:"arena" envPrefix:"ARENA_"`
	Skirmish  Skirmish  `yaml:"skirmish" envPrefix:"SKIRMISH_"`
	Status    Status    `yaml:"status" envPrefix:"STATUS_"`
	Combat    Combat    `yaml:"combat" envPrefix:"COMBAT_"`
	Storage   Storage   `yaml:"storage" envPrefix:"STORAGE_"`
	Telemetry Telemetry `yaml:"telemetry" envPrefix:"OTEL_"`
}

// Arena describes the static map. An empty layout is an open field of
// Width × Height; otherwise every layout row is a line of cells ('#' = wall).
type Arena struct {
	Width    float64  `yaml:"width" env:"WIDTH"`
	Height   float64  `yaml:"height" env:"HEIGHT"`
	CellSize float64  `yaml:"cell_size" env:"CELL_SIZE"`
	Layout   []string `yaml:"layout"`
	Covers   []Cover  `yaml:"covers"`
}

// Cover is one destructible crate placed at scene setup.
type Cover struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Half   float64 `yaml:"half"`
	Health int32   `yaml:"health"`
}

// Skirmish is the demo scene run by the command binary.
type Skirmish struct {
	Weapon  string   `yaml:"weapon" env:"WEAPON"`
	Mods    []string `yaml:"mods" env:"MODS"`
	Core    string   `yaml:"core" env:"CORE"`
	Unlock  []string `yaml:"unlock" env:"UNLOCK"`
	Enemies []string `yaml:"enemies" env:"ENEMIES"` // archetype names
	Health  int32    `yaml:"player_health" env:"PLAYER_HEALTH"`
	Shield  int32    `yaml:"player_shield" env:"PLAYER_SHIELD"`
}

// Status tunes the status effect accumulator.
type Status struct {
	Cadence        time.Duration `yaml:"cadence" env:"CADENCE"`
	IgniteDuration time.Duration `yaml:"ignite_duration" env:"IGNITE_DURATION"`
	IgniteDPS      float64       `yaml:"ignite_dps" env:"IGNITE_DPS"`
	ToxinDuration  time.Duration `yaml:"toxin_duration" env:"TOXIN_DURATION"`
	ToxinDPS       float64       `yaml:"toxin_dps" env:"TOXIN_DPS"`
	StunDuration   time.Duration `yaml:"stun_duration" env:"STUN_DURATION"`
}

// Combat tunes the damage pipeline.
type Combat struct {
	SplashFraction         float64       `yaml:"splash_fraction" env:"SPLASH_FRACTION"`
	CounterDamage          int32         `yaml:"counter_damage" env:"COUNTER_DAMAGE"`
	CounterRadius          float64       `yaml:"counter_radius" env:"COUNTER_RADIUS"`
	CounterKnockback       float64       `yaml:"counter_knockback" env:"COUNTER_KNOCKBACK"`
	KnockbackFor           time.Duration `yaml:"knockback_for" env:"KNOCKBACK_FOR"`
	CoverPressurePerSecond float64       `yaml:"cover_pressure_per_second" env:"COVER_PRESSURE_PER_SECOND"`
}

// Storage selects where weapon builds are persisted.
type Storage struct {
	Driver        string         `yaml:"driver" env:"DRIVER"`
	SQLitePath    string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	FlushInterval time.Duration  `yaml:"flush_interval" env:"FLUSH_INTERVAL"`
	Database      DatabaseConfig `yaml:"database" envPrefix:"PG_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"DBNAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Telemetry configures OpenTelemetry tracing. Tracing is off while Endpoint
// is empty.
type Telemetry struct {
	Endpoint    string  `yaml:"endpoint" env:"ENDPOINT"`
	Insecure    bool    `yaml:"insecure" env:"INSECURE"`
	ServiceName string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel: "info",
		TickRate: 60,
		Realtime: true,
		Seed:     1,
		Arena: Arena{
			Width:    1600,
			Height:   1000,
			CellSize: 50,
		},
		Skirmish: Skirmish{
			Weapon:  "blaster",
			Enemies: []string{"melee", "melee", "sniper", "shielded"},
			Health:  250,
			Shield:  60,
		},
		Status: Status{
			Cadence:        100 * time.Millisecond,
			IgniteDuration: 4 * time.Second,
			IgniteDPS:      8,
			ToxinDuration:  6 * time.Second,
			ToxinDPS:       2.5,
			StunDuration:   1500 * time.Millisecond,
		},
		Combat: Combat{
			SplashFraction:         0.5,
			CounterDamage:          15,
			CounterRadius:          90,
			CounterKnockback:       420,
			KnockbackFor:           250 * time.Millisecond,
			CoverPressurePerSecond: 4,
		},
		Storage: Storage{
			Driver:        DriverMemory,
			SQLitePath:    "combatsim.db",
			FlushInterval: 5 * time.Second,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "combatsim",
				Password: "combatsim",
				DBName:   "combatsim",
				SSLMode:  "disable",
			},
		},
		Telemetry: Telemetry{
			ServiceName: "combatsim",
			SampleRatio: 1,
		},
	}
}

// TickInterval returns the fixed simulation step.
func (s Simulation) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Validate checks values that would make the simulation misbehave.
func (s Simulation) Validate() error {
	if s.TickRate <= 0 || s.TickRate > 1000 {
		return fmt.Errorf("tick_rate must be in 1..1000, got %d", s.TickRate)
	}
	if s.Status.Cadence <= 0 {
		return fmt.Errorf("status.cadence must be positive, got %s", s.Status.Cadence)
	}
	if s.Combat.SplashFraction < 0 || s.Combat.SplashFraction > 1 {
		return fmt.Errorf("combat.splash_fraction must be in [0,1], got %g", s.Combat.SplashFraction)
	}
	if len(s.Arena.Layout) == 0 && (s.Arena.Width <= 0 || s.Arena.Height <= 0) {
		return fmt.Errorf("arena size must be positive, got %gx%g", s.Arena.Width, s.Arena.Height)
	}
	switch s.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage.Driver)
	}
	return nil
}

// LoadSimulation loads simulation config from a YAML file and applies
// COMBATSIM_* environment overrides on top.
// If the file doesn't exist, the defaults are used as the base.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
