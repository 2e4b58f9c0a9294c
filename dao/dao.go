package dao

import (
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/questforge/cubevault/config"
)

type Dao struct {
	DB *gorm.DB
}

// New opens the mysql store and migrates the schema.
func New(cfg *config.DBConf) (*Dao, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "db handle")
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	d := &Dao{DB: db}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests.
func NewWithDB(db *gorm.DB) (*Dao, error) {
	d := &Dao{DB: db}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dao) migrate() error {
	err := d.DB.AutoMigrate(
		&QuestRecord{},
		&CubeRecord{},
		&ConsumedDigest{},
		&RoleRecord{},
		&EventRecord{},
		&BatchReceiptRecord{},
		&EngineState{},
	)
	return errors.Wrap(err, "auto migrate")
}
