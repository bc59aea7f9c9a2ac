package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/3dcreationshub/creationshub/config"
	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())

	loglevel := logger.Silent
	if cfg.Debug {
		loglevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(loglevel),
	})
	if err != nil {
		panic(errors.Wrap(err, "open database"))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "creationshub"

	hashedPassword, err := common.HashPassword(defaultPassword)
	if err != nil {
		zap.L().Error("failed to hash default password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

// settingSchemas defines every sys_config entry and its default. Keys are
// "category.name".
var settingSchemas = []settingSchema{
	{"site.title", "3D Creations Private Limited", "Public site title"},
	{"site.description", "3D lenticular printing, custom corporate gifts and pharma-focused promotional items", "Public site description"},
	{"site.keywords", "3d lenticular printing,corporate gifts,pharma promotional items", "Public site keywords"},
	{"site.contact_email", "sales@3dcreationshub.example", "Public contact address"},
	{"smtp.host", "", "SMTP server host"},
	{"smtp.port", "587", "SMTP server port"},
	{"smtp.username", "", "SMTP username"},
	{"smtp.password", "", "SMTP password"},
	{"smtp.from", "noreply@3dcreationshub.example", "Notification sender address"},
	{"smtp.enabled", common.DISABLED, "Send inquiry notification mails"},
	{"notify.email", "", "Recipient for new inquiry notifications"},
	{"team.members", "Aarav Sharma,Priya Singh,Rohan Mehta,Anika Gupta", "Sales team members, comma separated"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, sc := range settingSchemas {
		parts := strings.SplitN(sc.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", sc.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  sc.Default,
				Remark: sc.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", sc.Key),
				zap.String("default", sc.Default))
		}
	}
}

// defaultCategories are created on an empty catalog so the storefront has
// its standard sections from the first boot.
var defaultCategories = []domain.ProductCategory{
	{Name: "3D Lenticular Prints", Description: "Depth, flip and motion prints for posters, cards and displays"},
	{Name: "Pharma & Corporate Gifts", Description: "Branded gifting for field forces and corporate clients"},
	{Name: "Customized Stationery", Description: "Diaries, planners, letterheads and presentation material"},
}

func (a *Application) checkDefaultCategories() {
	var count int64
	if err := a.gormDB.Model(&domain.ProductCategory{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count categories", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}
	for _, c := range defaultCategories {
		c.ID = common.UUIDint64()
		if err := a.gormDB.Create(&c).Error; err != nil {
			zap.L().Error("failed to seed category", zap.String("name", c.Name), zap.Error(err))
			continue
		}
		zap.L().Info("initialized category", zap.String("name", c.Name))
	}
}
