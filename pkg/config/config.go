// Package config loads wikianki settings from YAML and the environment.
package config

// Config is the root configuration.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Frequency FrequencyConfig `yaml:"frequency"`
	Output    OutputConfig    `yaml:"output"`
	Deck      DeckConfig      `yaml:"deck"`
	Log       LogConfig       `yaml:"log"`
}

// InputConfig selects the dump and the language extracted from it.
type InputConfig struct {
	Path     string `yaml:"path"     env:"WIKIANKI_INPUT"    env-default:"kaikki.org-dictionary-Chinese.jsonl"`
	Language string `yaml:"language" env:"WIKIANKI_LANGUAGE" env-default:"Chinese"`
	Limit    int    `yaml:"limit"    env:"WIKIANKI_LIMIT"    env-default:"0"`
}

// FrequencyConfig points at the rank corpus and picks the ranking policy.
type FrequencyConfig struct {
	Path     string `yaml:"path"      env:"WIKIANKI_FREQUENCY_PATH"      env-default:"wikipedia-frequency-2023.txt"`
	MaxRank  int    `yaml:"max_rank"  env:"WIKIANKI_FREQUENCY_MAX_RANK"  env-default:"100000"`
	Policy   string `yaml:"policy"    env:"WIKIANKI_FREQUENCY_POLICY"    env-default:"lookup"`
	MaxCards int    `yaml:"max_cards" env:"WIKIANKI_FREQUENCY_MAX_CARDS" env-default:"0"`
}

// OutputConfig names the interchange table and the package.
type OutputConfig struct {
	TablePath           string `yaml:"table_path"            env:"WIKIANKI_TABLE"                 env-default:"chinese.csv"`
	PackagePath         string `yaml:"package_path"          env:"WIKIANKI_PACKAGE"               env-default:"chinese.apkg"`
	MinDefinitionLength int    `yaml:"min_definition_length" env:"WIKIANKI_MIN_DEFINITION_LENGTH" env-default:"10"`
}

// DeckConfig holds the deck and note type metadata written to the package.
type DeckConfig struct {
	Name          string `yaml:"name"            env:"WIKIANKI_DECK_NAME"`
	Description   string `yaml:"description"     env:"WIKIANKI_DECK_DESCRIPTION"`
	ModelName     string `yaml:"model_name"      env:"WIKIANKI_MODEL_NAME"`
	ActivateNew   bool   `yaml:"activate_new"    env:"WIKIANKI_ACTIVATE_NEW"`
	NewPerDay     int    `yaml:"new_per_day"     env:"WIKIANKI_NEW_PER_DAY"     env-default:"20"`
	ReviewsPerDay int    `yaml:"reviews_per_day" env:"WIKIANKI_REVIEWS_PER_DAY" env-default:"200"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WIKIANKI_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WIKIANKI_LOG_FORMAT" env-default:"text"`
}

// DeckName falls back to the language.
func (c *Config) DeckName() string {
	if c.Deck.Name != "" {
		return c.Deck.Name
	}
	return c.Input.Language
}

// DeckDescription falls back to a description derived from the language.
func (c *Config) DeckDescription() string {
	if c.Deck.Description != "" {
		return c.Deck.Description
	}
	return c.Input.Language + " dictionary from Wiktionary"
}

// ModelName falls back to the language.
func (c *Config) ModelName() string {
	if c.Deck.ModelName != "" {
		return c.Deck.ModelName
	}
	return c.Input.Language
}
