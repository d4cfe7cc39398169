// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

const (
	tasksCollection = "tasks"
	usersCollection = "users"
)

// Stores holds the repositories of the configured backend
type Stores struct {
	Driver string
	Tasks  repository.TaskRepository
	Users  repository.UserRepository

	sqlDB   *sqlx.DB
	mongoDB *mongo.Database
	logger  logrus.FieldLogger
}

// Open connects to the backend selected by STORE_DRIVER
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Stores, error) {
	opts := []repository.Option{repository.WithLogger(logger)}
	s := &Stores{Driver: cfg.Store.Driver, logger: logger}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, err
		}
		s.useSQL(db, opts)
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Database.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s.useSQL(db, opts)
	case config.DriverMongo:
		mdb, err := database.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			return nil, err
		}
		s.mongoDB = mdb
		s.Tasks = repository.NewMongoTaskRepository(mdb.Collection(tasksCollection), opts...)
		s.Users = repository.NewMongoUserRepository(mdb.Collection(usersCollection), opts...)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return s, nil
}

func (s *Stores) useSQL(db *sqlx.DB, opts []repository.Option) {
	s.sqlDB = db
	s.Tasks = repository.NewSQLTaskRepository(db, opts...)
	s.Users = repository.NewSQLUserRepository(db, opts...)
}

// Migrate creates the SQL schema or the Mongo indexes
func (s *Stores) Migrate(ctx context.Context) error {
	s.logger.WithField("driver", s.Driver).Info("running migrations")

	if s.sqlDB != nil {
		return database.Migrate(ctx, s.sqlDB)
	}

	tasks, ok := s.Tasks.(*repository.MongoTaskRepository)
	if !ok {
		return nil
	}
	if err := tasks.EnsureIndexes(ctx); err != nil {
		return err
	}
	if users, ok := s.Users.(*repository.MongoUserRepository); ok {
		return users.EnsureIndexes(ctx)
	}
	return nil
}

// Close releases the backend connection
func (s *Stores) Close(ctx context.Context) error {
	switch {
	case s.sqlDB != nil:
		return s.sqlDB.Close()
	case s.mongoDB != nil:
		return s.mongoDB.Client().Disconnect(ctx)
	}
	return nil
}
