package clustergcn

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ClusterSpec describes how the graph is split into clusters.
// It is either a Count (random partition) or an Explicit partition.
type ClusterSpec interface {
	clusterSpec()
	size() int
}

// Count asks the generator to split the nodes uniformly at random into
// that many clusters.
type Count int

// Explicit is a caller-provided partition: one slice of node ids per cluster.
type Explicit [][]string

func (Count) clusterSpec()    {}
func (Explicit) clusterSpec() {}

func (c Count) size() int    { return int(c) }
func (e Explicit) size() int { return len(e) }

// Precision selects how cached node features are stored.
type Precision string

const (
	// Float64 keeps features at full precision.
	Float64 Precision = "float64"
	// Float16 stores features as IEEE half floats, trading accuracy for a 4x smaller cache.
	Float16 Precision = "float16"
)

// Config holds the generator parameters.
type Config struct {
	// Name labels logs and metrics. Default: "clustergcn".
	Name string `yaml:"name"`

	// Clusters is the number of random clusters or an explicit partition. Default: Count(1).
	Clusters ClusterSpec `yaml:"-" validate:"-"`

	// Q is the number of clusters combined into one batch. Default: 1.
	Q int `yaml:"q" validate:"gt=0"`

	// Lam is the diagonal enhancement coefficient, in [0, 1]. Default: 0.1.
	Lam float64 `yaml:"lam" validate:"gte=0,lte=1"`

	// Normalize enables adjacency normalisation. Default: true.
	Normalize bool `yaml:"normalize"`

	// FeaturePrecision controls the feature cache storage. Default: float64.
	FeaturePrecision Precision `yaml:"feature_precision" validate:"oneof=float64 float16"`

	// Seed makes partitioning and epoch shuffles reproducible. 0 means random.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the whole graph as a single cluster, q=1, lam=0.1
// and normalisation on.
func DefaultConfig() Config {
	return Config{
		Name:             "clustergcn",
		Clusters:         Count(1),
		Q:                1,
		Lam:              0.1,
		Normalize:        true,
		FeaturePrecision: Float64,
	}
}

// fileConfig mirrors Config for YAML decoding. Clusters stays a raw node
// because it may hold either an int or a list of id lists.
type fileConfig struct {
	Name             string    `yaml:"name"`
	Clusters         yaml.Node `yaml:"clusters"`
	Q                int       `yaml:"q"`
	Lam              float64   `yaml:"lam"`
	Normalize        bool      `yaml:"normalize"`
	FeaturePrecision Precision `yaml:"feature_precision"`
	Seed             uint64    `yaml:"seed"`
}

// LoadConfig reads a YAML configuration file using strict parsing.
// Keys missing from the file keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	// 1. Open File
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open clustergcn config: %w", err)
	}
	defer file.Close()

	// 2. Setup Strict Decoder
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	// 3. Decode on top of the defaults
	fc := fileConfig{
		Name:             cfg.Name,
		Q:                cfg.Q,
		Lam:              cfg.Lam,
		Normalize:        cfg.Normalize,
		FeaturePrecision: cfg.FeaturePrecision,
		Seed:             cfg.Seed,
	}
	if err := decoder.Decode(&fc); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in clustergcn config: %w", err)
	}

	cfg.Name = fc.Name
	cfg.Q = fc.Q
	cfg.Lam = fc.Lam
	cfg.Normalize = fc.Normalize
	cfg.FeaturePrecision = fc.FeaturePrecision
	cfg.Seed = fc.Seed

	if fc.Clusters.Kind != 0 {
		spec, err := decodeClusterSpec(&fc.Clusters)
		if err != nil {
			return cfg, err
		}
		cfg.Clusters = spec
	}
	return cfg, nil
}

func decodeClusterSpec(node *yaml.Node) (ClusterSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var k int
		if err := node.Decode(&k); err != nil {
			return nil, fmt.Errorf("clusters (line %d): %v: %w", node.Line, err, ErrInvalidType)
		}
		return Count(k), nil
	case yaml.SequenceNode:
		var parts [][]string
		if err := node.Decode(&parts); err != nil {
			return nil, fmt.Errorf("clusters (line %d): %v: %w", node.Line, err, ErrInvalidType)
		}
		return Explicit(parts), nil
	default:
		return nil, fmt.Errorf("clusters (line %d): must be an int or a list of node id lists: %w", node.Line, ErrInvalidType)
	}
}

var configValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml names so errors match what users write in config files.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate checks the configuration in the order the generator relies on:
// cluster spec kind, cluster spec value, scalar ranges, then q divisibility.
func (c Config) validate() error {
	switch spec := c.Clusters.(type) {
	case nil:
		return fmt.Errorf("clusters must be a Count or an Explicit partition: %w", ErrInvalidType)
	case Count:
		if spec <= 0 {
			return fmt.Errorf("clusters must be greater than 0, got %d: %w", int(spec), ErrInvalidValue)
		}
	case Explicit:
		if len(spec) == 0 {
			return fmt.Errorf("explicit partition has no clusters: %w", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("unsupported cluster spec %T: %w", spec, ErrInvalidType)
	}

	if err := configValidator.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if k := c.Clusters.size(); k%c.Q != 0 {
		return fmt.Errorf("the number of clusters (%d) must be exactly divisible by q (%d): %w", k, c.Q, ErrInvalidConfig)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrInvalidValue)
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
