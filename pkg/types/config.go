// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ParserConfig holds settings for the prerequisite parser.
type ParserConfig struct {
	// MaxDepth caps parenthesis nesting (default 64).
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`

	// MinCodeLength and MaxCodeLength bound the trimmed length of a token
	// that is read as a course code (defaults 7 and 10). Tokens outside the
	// band are exam placeholders when ExamHeuristic is on. The band fits
	// "DEPT ####" codes and is a heuristic, not a rule.
	MinCodeLength int `json:"min_code_length" yaml:"min_code_length" mapstructure:"min_code_length"`
	MaxCodeLength int `json:"max_code_length" yaml:"max_code_length" mapstructure:"max_code_length"`

	// ExamHeuristic enables the code-length test. When false every token
	// before a colon is a course code.
	ExamHeuristic bool `json:"exam_heuristic" yaml:"exam_heuristic" mapstructure:"exam_heuristic"`
}

// CatalogConfig holds settings for catalog record assembly.
type CatalogConfig struct {
	Parser ParserConfig `json:"parser" yaml:"parser" mapstructure:"parser"`

	// Workers bounds the goroutines used for batch parsing (0 = GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// StoreConfig holds settings for the SQLite course store.
type StoreConfig struct {
	// Path is the database file (default "catalog/prereqs.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default list limit (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all stage configurations.
type Config struct {
	Parser  ParserConfig  `json:"parser" yaml:"parser" mapstructure:"parser"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultParserConfig returns the parser defaults.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		MaxDepth:      64,
		MinCodeLength: 7,
		MaxCodeLength: 10,
		ExamHeuristic: true,
	}
}

// DefaultConfig returns the defaults for every stage.
func DefaultConfig() Config {
	p := DefaultParserConfig()
	return Config{
		Parser:  p,
		Catalog: CatalogConfig{Parser: p},
		Store:   StoreConfig{Path: "catalog/prereqs.db", MaxResults: 100},
		Server:  ServerConfig{Addr: ":8080"},
	}
}
