package persistence

import (
	"context"
	"fmt"
)

// Options selects and configures a backend. Fields carry env tags so they can be
// embedded in the process settings.
type Options struct {
	Driver      Driver `env:"NATION_SAVE_DRIVER" envDefault:"fs"`
	Key         string `env:"NATION_SAVE_KEY" envDefault:"nbr:save:v0"`
	Dir         string `env:"NATION_SAVE_DIR" envDefault:"saves"`
	SQLitePath  string `env:"NATION_SQLITE_PATH" envDefault:"saves/nation.db"`
	PostgresDSN string `env:"NATION_POSTGRES_DSN"`
	S3Bucket    string `env:"NATION_S3_BUCKET"`
	S3Region    string `env:"NATION_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"NATION_S3_ENDPOINT"`
	S3Prefix    string `env:"NATION_S3_PREFIX"`
	S3PathStyle bool   `env:"NATION_S3_PATH_STYLE"`
}

// Open creates the backend named by opts.Driver (default fs)
func Open(ctx context.Context, opts Options) (Backend, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(opts.Dir)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    opts.S3Bucket,
			Region:    opts.S3Region,
			Endpoint:  opts.S3Endpoint,
			Prefix:    opts.S3Prefix,
			PathStyle: opts.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown save driver %q", driver)
	}
}
