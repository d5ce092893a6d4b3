package server

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/repositories"
)

// Messages logged on the outcome of the startup connection.
const (
	MsgDatabaseConnected = "Conexión exitosa a la base de datos"
	MsgDatabaseFailed    = "Hubo un error al conectar a la base de datos"
)

// Database is the storage the server runs on.
type Database struct {
	// DB is nil for the memory driver and when the connection failed.
	DB       *gorm.DB
	Products repositories.ProductRepository
	// Err is the startup failure kept while serving in degraded mode.
	Err error
}

// ConnectDatabase opens and migrates the configured database.
//
// On failure the error is logged. With the exit policy it is returned; with the
// continue policy the server keeps running on a repository that fails every call.
func ConnectDatabase(cfg config.DatabaseConfig, log zerolog.Logger) (*Database, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("using in-memory product storage, data is lost on restart")
		return &Database{Products: repositories.NewMemoryProductRepository()}, nil
	}

	db, err := database.Open(cfg, log)
	if err == nil {
		if err = database.Migrate(db); err != nil {
			_ = database.Close(db)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Driver).Msg(MsgDatabaseFailed)
		if cfg.ExitOnFailure() {
			return nil, err
		}
		return &Database{
			Products: repositories.NewUnavailableProductRepository(err),
			Err:      err,
		}, nil
	}

	log.Info().Str("driver", cfg.Driver).Msg(MsgDatabaseConnected)
	return &Database{
		DB:       db,
		Products: repositories.NewGORMProductRepository(db),
	}, nil
}

// Close releases the connection pool, if any.
func (d *Database) Close() error {
	if d.DB == nil {
		return nil
	}
	return database.Close(d.DB)
}
