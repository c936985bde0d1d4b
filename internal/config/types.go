package config

// Config holds all configuration for the application.
type Config struct {
	Port          string
	MigrationsDir string
	JWTSecret     string
	DB            DBConfig
	Rounds        RoundsConfig
	Log           LogConfig
}

type DBConfig struct {
	Path string
	// Turso is used instead of the local file when PrimaryURL is set
	Turso TursoConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RoundsConfig struct {
	AutoRackStatus bool
}

type LogConfig struct {
	Level  string
	Format string
}
