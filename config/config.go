package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/3dcreationshub/creationshub/pkg/common"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	Secret        string `yaml:"secret" json:"secret"`
	AssetsDir     string `yaml:"assets_dir" json:"assets_dir"`
	SessionMaxAge int    `yaml:"session_max_age" json:"session_max_age"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// StorageConfig configures the blob store. URL is a cloudinary:// style
// connection string; Folder prefixes every storage key.
type StorageConfig struct {
	CloudinaryURL string `yaml:"cloudinary_url" json:"cloudinary_url"`
	Folder        string `yaml:"folder" json:"folder"`
}

type AIConfig struct {
	APIKey string `yaml:"api_key" json:"api_key"`
	Model  string `yaml:"model" json:"model"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	AI       AIConfig      `yaml:"ai" json:"ai"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "CreationsHub",
		Location: "Asia/Kolkata",
		Workdir:  "/var/creationshub",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1889,
		Secret:        "9b6de5cc-creationshub-0769",
		AssetsDir:     "assets",
		SessionMaxAge: 86400,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "creationshub",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Storage: StorageConfig{
		Folder: "products",
	},
	AI: AIConfig{
		Model: "gemini-2.0-flash",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/creationshub/creationshub.log",
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	appcfg := new(AppConfig)
	if cfile == "" {
		cfile = "creationshub.yml"
	}
	if common.FileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		if err = yaml.Unmarshal(data, appcfg); err != nil {
			panic(err)
		}
	} else {
		appcfg = DefaultAppConfig
	}

	setEnvValue("CREATIONSHUB_SYSTEM_WORKDIR", &appcfg.System.Workdir)
	setEnvValue("CREATIONSHUB_WEB_SECRET", &appcfg.Web.Secret)
	setEnvValue("CREATIONSHUB_DB_HOST", &appcfg.Database.Host)
	setEnvValue("CREATIONSHUB_DB_NAME", &appcfg.Database.Name)
	setEnvValue("CREATIONSHUB_DB_USER", &appcfg.Database.User)
	setEnvValue("CREATIONSHUB_DB_PWD", &appcfg.Database.Passwd)
	setEnvValue("CLOUDINARY_URL", &appcfg.Storage.CloudinaryURL)
	setEnvValue("GEMINI_API_KEY", &appcfg.AI.APIKey)
	setEnvValue("CREATIONSHUB_AI_MODEL", &appcfg.AI.Model)
	setEnvBoolValue("CREATIONSHUB_SYSTEM_DEBUG", &appcfg.System.Debug)
	return appcfg
}
