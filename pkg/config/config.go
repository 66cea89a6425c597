// Package config loads and validates the YAML run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/validation"
)

const (
	DefaultThreshold    = 0.015
	DefaultMaxThreshold = 0.05
)

// LogLevels are the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is one analysis run.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Threshold    float64 `yaml:"threshold"`
	MaxThreshold float64 `yaml:"max_threshold"`

	// IDDelimiter splits compound node ids; IndividualField picks the part that joins
	// to the attribute table.
	IDDelimiter     string `yaml:"id_delimiter" validate:"single_rune"`
	IndividualField int    `yaml:"individual_field"`

	Edges          string            `yaml:"edges"`
	Attributes     string            `yaml:"attributes"`
	AttributeKinds map[string]string `yaml:"attribute_kinds"`
	ZipCategory    string            `yaml:"zip_category"`
	Views          []View            `yaml:"views" validate:"dive"`

	MinClusterSize  int  `yaml:"min_cluster_size"`
	LargestClusters int  `yaml:"largest_clusters"`
	StrictEdges     bool `yaml:"strict_edges"`

	MetricsFile string `yaml:"metrics_file"`
	Export      Export `yaml:"export"`
	S3          S3     `yaml:"s3"`
}

// View is a view definition: one selector per attribute category, in column order.
type View struct {
	Color     string   `yaml:"color" validate:"omitempty,hexcolor"`
	Selectors []string `yaml:"selectors" validate:"required,min=1"`
}

// Export names the output files. Empty means no output.
type Export struct {
	Edges    string `yaml:"edges"`
	Clusters string `yaml:"clusters"`
}

// S3 configures access to s3:// inputs. Empty fields fall back to the AWS defaults.
type S3 struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		Threshold:       DefaultThreshold,
		MaxThreshold:    DefaultMaxThreshold,
		IDDelimiter:     graph.DefaultDelimiter,
		IndividualField: 1,
	}
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	d := Default()
	c.LogLevel = validation.DefaultOr(c.LogLevel, d.LogLevel)
	c.MaxThreshold = validation.DefaultOr(c.MaxThreshold, d.MaxThreshold)
	c.IDDelimiter = validation.DefaultOr(c.IDDelimiter, d.IDDelimiter)
}

// Validate checks struct tags and the cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	v := validation.NewConfigValidator("Config")
	v.Required("Edges", c.Edges).
		PositiveFloat("MaxThreshold", c.MaxThreshold).
		RangeFloat("Threshold", c.Threshold, 0, c.MaxThreshold).
		NonNegative("IndividualField", c.IndividualField).
		NonNegative("MinClusterSize", c.MinClusterSize).
		NonNegative("LargestClusters", c.LargestClusters).
		Custom("AttributeKinds", func() error {
			_, err := c.Kinds()
			return err
		})

	v.When(c.LogLevel != "", func(cv *validation.ConfigValidator) {
		cv.OneOf("LogLevel", c.LogLevel, LogLevels)
	})

	v.When(c.ZipCategory != "" || len(c.Views) > 0 || len(c.AttributeKinds) > 0, func(cv *validation.ConfigValidator) {
		cv.Required("Attributes", c.Attributes)
	})
	v.When(c.S3.AccessKeyID != "", func(cv *validation.ConfigValidator) {
		cv.Required("S3.SecretAccessKey", c.S3.SecretAccessKey)
	})
	return v.Validate()
}

// Kinds returns the attribute kind overrides.
func (c *Config) Kinds() (map[string]attributes.Kind, error) {
	out := make(map[string]attributes.Kind, len(c.AttributeKinds))
	for name, s := range c.AttributeKinds {
		k, err := attributes.ParseKind(s)
		if err != nil {
			return nil, fmt.Errorf("attribute_kinds.%s: %w", name, err)
		}
		out[name] = k
	}
	return out, nil
}

// Resolver returns the node id to individual id mapping the config describes.
func (c *Config) Resolver() graph.Resolver {
	return graph.FieldResolver(c.IDDelimiter, c.IndividualField)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.ApplyDefaults()
	return c, nil
}

// Load reads and parses a config file. It does not validate, so callers can apply
// flag overrides first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}
