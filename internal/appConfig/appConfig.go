package appConfig

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"

	"orgbackup/internal/ext"
	"orgbackup/internal/github"
	"orgbackup/internal/gitrepo"
)

const DefaultConfigFileName = "orgbackup.yaml"

const (
	DefaultOrganization    = "privacy-scaling-explorations"
	DefaultOutputDirectory = "/tmp/repos"
	DefaultBucket          = "pse-gh-repos-backup"
	DefaultTokenEnvVar     = "GITHUB_TOKEN"
)

// Environment variables that override the config file.
const (
	EnvOrganization    = "ORGBACKUP_ORG"
	EnvOutputDirectory = "ORGBACKUP_OUTPUT_DIR"
	EnvBucket          = "ORGBACKUP_BUCKET"
	EnvAPIURL          = "ORGBACKUP_API_URL"
)

type AppConfig struct {
	Organization    string `yaml:"organization"`
	OutputDirectory string `yaml:"outputDirectory"`
	Bucket          string `yaml:"bucket"`
	APIURL          string `yaml:"apiUrl"`
	TokenEnvVar     string `yaml:"tokenEnvVar"` // The environment variable holding a GitHub token, optional
	PageSize        int    `yaml:"pageSize"`

	GitBinary    string        `yaml:"gitBinary"`
	CloneTimeout time.Duration `yaml:"cloneTimeout"` // 0 is interpreted as no limit

	S3Region       string `yaml:"s3Region"`
	S3Endpoint     string `yaml:"s3Endpoint"`
	S3UsePathStyle bool   `yaml:"s3UsePathStyle"`

	// The archive is the completion marker of a repository, so it is kept unless asked otherwise.
	DeleteArchiveAfterUpload bool `yaml:"deleteArchiveAfterUpload"`

	Verbose     bool   `yaml:"verbose"`
	LogFile     string `yaml:"logFile"`
	MetricsFile string `yaml:"metricsFile"`
}

func Default() *AppConfig {
	return (&AppConfig{}).withDefaults()
}

func (c *AppConfig) withDefaults() *AppConfig {
	c.Organization = ext.DefaultValue(c.Organization, DefaultOrganization)
	c.OutputDirectory = ext.DefaultValue(c.OutputDirectory, DefaultOutputDirectory)
	c.Bucket = ext.DefaultValue(c.Bucket, DefaultBucket)
	c.APIURL = ext.DefaultValue(c.APIURL, github.DefaultBaseURL)
	c.TokenEnvVar = ext.DefaultValue(c.TokenEnvVar, DefaultTokenEnvVar)
	c.PageSize = ext.DefaultValue(c.PageSize, github.DefaultPageSize)
	c.GitBinary = ext.DefaultValue(c.GitBinary, gitrepo.DefaultGitBinary)
	return c
}

// FindConfigFile looks for configFileName in the working directory, then in the home directory.
// It returns an empty path when neither has one.
func FindConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	} else if !os.IsNotExist(err) {
		return "", errors.Trace(err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Annotate(err, "could not determine home directory")
	}
	configFilePath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", errors.Trace(err)
	}
	return configFilePath, nil
}

// LoadConfig reads configFilePath, filling in defaults for everything the file leaves out.
// An empty path yields the defaults.
func LoadConfig(configFilePath string) (*AppConfig, error) {
	var config AppConfig
	if configFilePath != "" {
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, errors.Annotate(err, "could not read config file")
		}
		if err := yaml.UnmarshalStrict(data, &config); err != nil {
			return nil, errors.Annotatef(err, "could not unmarshal config file %s", configFilePath)
		}
	}
	return config.withDefaults(), nil
}

// ApplyEnv overrides settings with the ORGBACKUP_* variables that lookup finds set and non-empty.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		EnvOrganization:    &c.Organization,
		EnvOutputDirectory: &c.OutputDirectory,
		EnvBucket:          &c.Bucket,
		EnvAPIURL:          &c.APIURL,
	} {
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			*field = value
		}
	}
}

func (c *AppConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Organization) == "":
		return errors.NotValidf("empty organization")
	case strings.TrimSpace(c.OutputDirectory) == "":
		return errors.NotValidf("empty output directory")
	case strings.TrimSpace(c.Bucket) == "":
		return errors.NotValidf("empty bucket")
	case c.PageSize < 1 || c.PageSize > github.MaxPageSize:
		return errors.NotValidf("page size %d (must be 1-%d)", c.PageSize, github.MaxPageSize)
	case c.CloneTimeout < 0:
		return errors.NotValidf("negative clone timeout %s", c.CloneTimeout)
	}
	return nil
}

// RetrieveTokenFromEnv returns the GitHub token, empty when none is configured.
func (c *AppConfig) RetrieveTokenFromEnv() string {
	if c.TokenEnvVar == "" {
		return ""
	}
	return os.Getenv(c.TokenEnvVar)
}
