package config

import (
	"strings"

	"github.com/huiyeony/yogiyum/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Settings holds everything read from config.yml or the environment.
type Settings struct {
	Port      int
	DBPath    string
	JWTSecret string
	PageSize  int
	Redis     struct {
		Enable bool
		Addr   string
	}
}

var (
	DB  *gorm.DB
	App Settings

	// JWTSecret used to sign tokens — populated by InitConfig
	JWTSecret []byte
)

// InitConfig loads config.yml when present and falls back to environment
// variables (YOGIYUM_PORT, YOGIYUM_DB_PATH, ...).
func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	viper.SetDefault("port", 8080)
	viper.SetDefault("db.path", "yogiyum.db")
	viper.SetDefault("jwt.secret", "yogiyum_super_secret_2025")
	viper.SetDefault("page.size", 20)
	viper.SetDefault("redis.enable", false)
	viper.SetDefault("redis.addr", "localhost:6379")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.WithError(err).Fatal("failed to read config file")
		}
		viper.SetEnvPrefix("yogiyum")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()
	}

	App.Port = viper.GetInt("port")
	App.DBPath = viper.GetString("db.path")
	App.JWTSecret = viper.GetString("jwt.secret")
	App.PageSize = viper.GetInt("page.size")
	App.Redis.Enable = viper.GetBool("redis.enable")
	App.Redis.Addr = viper.GetString("redis.addr")

	JWTSecret = []byte(App.JWTSecret)
}

// InitLogger configures the global logrus logger.
func InitLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	logrus.SetLevel(logrus.InfoLevel)
}

// statsViewDDL defines the restaurants_with_stats view: every restaurant
// with its average rating (0 when unreviewed), liked count and review count.
const statsViewDDL = `
CREATE VIEW IF NOT EXISTS restaurants_with_stats AS
SELECT
    r.id,
    r.name,
    r.thumbnail_url,
    r.latitude,
    r.longitude,
    r.address,
    r.phone,
    r.category,
    r.kakaomap_id,
    IFNULL((SELECT AVG(v.rating) FROM reviews v WHERE v.restaurant_id = r.id), 0) AS average_rating,
    (SELECT COUNT(*) FROM liked l WHERE l.restaurant_id = r.id) AS liked_count,
    (SELECT COUNT(*) FROM reviews v WHERE v.restaurant_id = r.id) AS review_count
FROM restaurants r
`

// OpenDB opens a SQLite database at the given path, migrates the schema
// and creates the stats view. Tests pass a path under t.TempDir; a shared
// ":memory:" DB does not survive gorm's connection pool.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Menu{},
		&models.Review{},
		&models.Liked{},
	); err != nil {
		return nil, err
	}

	if err := db.Exec(statsViewDDL).Error; err != nil {
		return nil, err
	}
	return db, nil
}

func InitDB() {
	var err error
	DB, err = OpenDB(App.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	logrus.WithField("path", App.DBPath).Info("database connected and migrated")
}
