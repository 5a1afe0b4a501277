package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init opens the database and migrates the core models.
// An empty databasePath falls back to helpinghand.db.
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "helpinghand.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	// TranslateError turns driver uniqueness violations into
	// gorm.ErrDuplicatedKey, which the slug and account paths rely on.
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate creates tables for the core models.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Post{},
		&Comment{},
		&CardApplication{},
		&SiteDailyVisitor{},
		&SiteDailySnapshot{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
