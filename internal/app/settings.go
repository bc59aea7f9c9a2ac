package app

import (
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

const settingsCacheTTL = 30 * time.Second

// SettingsManager reads and writes sys_config entries with a short-lived
// in-memory cache. Values are addressed by category and name.
type SettingsManager struct {
	app      *Application
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewSettingsManager(app *Application) *SettingsManager {
	return &SettingsManager{app: app, cache: map[string]string{}}
}

func (m *SettingsManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.loadedAt) < settingsCacheTTL {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Since(m.loadedAt) < settingsCacheTTL {
		return m.cache
	}

	var rows []domain.SysConfig
	if err := m.app.gormDB.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return m.cache
	}
	cache := make(map[string]string, len(rows))
	for _, r := range rows {
		cache[r.Type+"."+r.Name] = r.Value
	}
	m.cache = cache
	m.loadedAt = time.Now()
	return m.cache
}

func (m *SettingsManager) GetString(category, key string) string {
	return m.load()[category+"."+key]
}

func (m *SettingsManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.load()[category+"."+key])
}

func (m *SettingsManager) GetBool(category, key string) bool {
	v := m.load()[category+"."+key]
	return cast.ToBool(v) || strings.EqualFold(v, common.ENABLED)
}

// GetTeamMembers parses the comma separated team roster setting.
func (m *SettingsManager) GetTeamMembers() []string {
	raw := m.GetString("team", "members")
	var members []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			members = append(members, name)
		}
	}
	return members
}

// SmtpSettings is the decoded smtp category.
type SmtpSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Enabled  string `mapstructure:"enabled"`
}

// GetSmtpSettings decodes the smtp category into a struct.
func (m *SettingsManager) GetSmtpSettings() (*SmtpSettings, error) {
	values := map[string]interface{}{}
	for k, v := range m.load() {
		if name, found := strings.CutPrefix(k, "smtp."); found {
			values[name] = v
		}
	}
	var out SmtpSettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "settings: build decoder")
	}
	if err := decoder.Decode(values); err != nil {
		return nil, errors.Wrap(err, "settings: decode smtp")
	}
	return &out, nil
}

// Save upserts settings given as "category.name" keys and invalidates the
// cache.
func (m *SettingsManager) Save(settings map[string]interface{}) error {
	for key, value := range settings {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			return errors.Errorf("settings: invalid key %s", key)
		}
		strval := cast.ToString(value)
		result := m.app.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", parts[0], parts[1]).
			Update("value", strval)
		if result.Error != nil {
			return errors.Wrapf(result.Error, "settings: save %s", key)
		}
		if result.RowsAffected == 0 {
			if err := m.app.gormDB.Create(&domain.SysConfig{
				ID:    common.UUIDint64(),
				Type:  parts[0],
				Name:  parts[1],
				Value: strval,
			}).Error; err != nil {
				return errors.Wrapf(err, "settings: create %s", key)
			}
		}
	}
	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
