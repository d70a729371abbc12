// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "quote-forge/0.1").
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
}

// AcquisitionConfig holds settings for reading documents and fetching pages.
type AcquisitionConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// Document is the local source document (PDF or plain text).
	Document string `mapstructure:"document" yaml:"document"`

	// PageDelay is the pause between consecutive page fetches (default 1s).
	PageDelay time.Duration `mapstructure:"page_delay" yaml:"page_delay" validate:"gte=0"`

	// RespectRobots checks each host's robots.txt before fetching.
	RespectRobots bool `mapstructure:"respect_robots" yaml:"respect_robots"`
}

// CleanConfig holds settings for the text cleaner.
type CleanConfig struct {
	// Boilerplate lists regular expressions removed from raw text.
	Boilerplate []string `mapstructure:"boilerplate" yaml:"boilerplate"`

	// KeepLineBreaks collapses whitespace runs that contain a line break
	// to a single newline instead of a space, so that the segmenter can
	// still see line-start markers.
	KeepLineBreaks bool `mapstructure:"keep_line_breaks" yaml:"keep_line_breaks"`
}

// SegmentConfig holds settings for passage and sentence segmentation.
type SegmentConfig struct {
	// MinPassages is the number of raw passages a heuristic must produce to win.
	MinPassages int `mapstructure:"min_passages" yaml:"min_passages" validate:"gte=1"`

	// MinPassageLength discards passages not longer than this many characters.
	MinPassageLength int `mapstructure:"min_passage_length" yaml:"min_passage_length" validate:"gte=0"`

	// TargetChunks is the approximate chunk count for the fixed-size fallback.
	TargetChunks int `mapstructure:"target_chunks" yaml:"target_chunks" validate:"gte=1"`

	// Abbreviations are words whose trailing period never ends a sentence.
	Abbreviations []string `mapstructure:"abbreviations" yaml:"abbreviations"`

	// SplitSalutations splits a leading "Dear X," off into its own candidate.
	SplitSalutations bool `mapstructure:"split_salutations" yaml:"split_salutations"`
}

// FilterConfig holds the quote filter rules.
type FilterConfig struct {
	// JunkPatterns are regular expressions; a match rejects the candidate.
	// Patterns are compiled as written, so case folding is opt-in via (?i).
	JunkPatterns []string `mapstructure:"junk_patterns" yaml:"junk_patterns"`

	// Salutations are lower-case openers that reject a candidate.
	Salutations []string `mapstructure:"salutations" yaml:"salutations"`

	MinLength   int `mapstructure:"min_length" yaml:"min_length" validate:"gte=1"`
	MaxLength   int `mapstructure:"max_length" yaml:"max_length" validate:"gtfield=MinLength"`
	MinAlphaRun int `mapstructure:"min_alpha_run" yaml:"min_alpha_run" validate:"gte=0"`

	// Keywords accept a candidate when any appears (case-insensitive).
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`

	// AcceptMin and AcceptMax bound the secondary, exclusive length range
	// that accepts a candidate without a keyword.
	AcceptMin int `mapstructure:"accept_min" yaml:"accept_min" validate:"gte=0"`
	AcceptMax int `mapstructure:"accept_max" yaml:"accept_max" validate:"gtfield=AcceptMin"`

	// MinWords rejects candidates with fewer words (0 disables the check).
	MinWords int `mapstructure:"min_words" yaml:"min_words" validate:"gte=0"`

	// Languages lists ISO 639-1 codes for the optional language gate.
	// The gate is enabled when Language is set.
	Languages []string `mapstructure:"languages" yaml:"languages" validate:"omitempty,min=2,dive,len=2"`
	Language  string   `mapstructure:"language" yaml:"language" validate:"omitempty,len=2"`
}

// DatasetConfig holds settings for the dataset writer.
type DatasetConfig struct {
	// OutputDir is the directory that receives the generated files.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	// Prefix names the output files, e.g. "gandhi" -> gandhi_training.jsonl.
	Prefix string `mapstructure:"prefix" yaml:"prefix" validate:"required"`

	// Multiplicity is the number of chat records written per quote.
	Multiplicity int `mapstructure:"multiplicity" yaml:"multiplicity" validate:"gte=1"`

	SystemPrompts []string `mapstructure:"system_prompts" yaml:"system_prompts" validate:"min=1"`
	UserPrompts   []string `mapstructure:"user_prompts" yaml:"user_prompts" validate:"min=1"`
	CSVPrompts    []string `mapstructure:"csv_prompts" yaml:"csv_prompts" validate:"min=1"`

	// Persona is the text/template header of the system prompt file.
	Persona string `mapstructure:"persona" yaml:"persona"`

	// Closing follows the numbered examples in the system prompt file.
	Closing string `mapstructure:"closing" yaml:"closing"`

	// PromptExamples is the number of quotes appended to the system prompt file.
	PromptExamples int `mapstructure:"prompt_examples" yaml:"prompt_examples" validate:"gte=0"`

	// Seed seeds template selection; 0 picks a time-based seed.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// ScrapeConfig holds settings specific to the web page pipeline.
type ScrapeConfig struct {
	// URLs is the default page list when none are given on the command line.
	URLs []string `mapstructure:"urls" yaml:"urls" validate:"dive,url"`

	// Prefix names the combined output files.
	Prefix string `mapstructure:"prefix" yaml:"prefix" validate:"required"`

	// MinWords overrides the filter's word minimum for page text.
	MinWords int `mapstructure:"min_words" yaml:"min_words" validate:"gte=0"`

	// NavigationPatterns replace the filter's junk patterns for page text.
	NavigationPatterns []string `mapstructure:"navigation_patterns" yaml:"navigation_patterns"`

	// Keywords and Salutations replace the filter's lists for page text.
	// Speeches carry no letter openers, so Salutations is empty by default.
	Keywords    []string `mapstructure:"keywords" yaml:"keywords"`
	Salutations []string `mapstructure:"salutations" yaml:"salutations"`

	// UserPrompts and CSVPrompts replace the dataset prompts for the
	// combined output.
	UserPrompts []string `mapstructure:"user_prompts" yaml:"user_prompts" validate:"min=1"`
	CSVPrompts  []string `mapstructure:"csv_prompts" yaml:"csv_prompts" validate:"min=1"`

	// Merge names an earlier quote listing to merge with; empty derives it
	// from the document dataset prefix.
	Merge string `mapstructure:"merge" yaml:"merge"`
}

// FineTuneConfig holds settings for the fine-tuning API stage.
type FineTuneConfig struct {
	// BaseURL is the API root (e.g. "https://api.openai.com").
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	Model  string `mapstructure:"model" yaml:"model" validate:"required"`
	Suffix string `mapstructure:"suffix" yaml:"suffix"`
	Epochs int    `mapstructure:"epochs" yaml:"epochs" validate:"gte=1"`

	// TrainingFile is the JSONL file uploaded by "finetune run".
	TrainingFile string `mapstructure:"training_file" yaml:"training_file"`

	FilePollInterval time.Duration `mapstructure:"file_poll_interval" yaml:"file_poll_interval" validate:"gt=0"`
	JobPollInterval  time.Duration `mapstructure:"job_poll_interval" yaml:"job_poll_interval" validate:"gt=0"`

	// MaxFilePolls and MaxJobPolls bound the status loops.
	MaxFilePolls int `mapstructure:"max_file_polls" yaml:"max_file_polls" validate:"gte=1"`
	MaxJobPolls  int `mapstructure:"max_job_polls" yaml:"max_job_polls" validate:"gte=1"`

	// MaxRetries is the number of 429 retries per request (default 5).
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`

	// StateDir holds the job ledger database.
	StateDir string `mapstructure:"state_dir" yaml:"state_dir" validate:"required"`
}

// LogConfig selects the logrus level, formatter, and optional rotated file.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	File   string `mapstructure:"file" yaml:"file"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Acquisition AcquisitionConfig `mapstructure:"acquisition" yaml:"acquisition"`
	Clean       CleanConfig       `mapstructure:"clean" yaml:"clean"`
	Segment     SegmentConfig     `mapstructure:"segment" yaml:"segment"`
	Filter      FilterConfig      `mapstructure:"filter" yaml:"filter"`
	Dataset     DatasetConfig     `mapstructure:"dataset" yaml:"dataset"`
	Scrape      ScrapeConfig      `mapstructure:"scrape" yaml:"scrape"`
	FineTune    FineTuneConfig    `mapstructure:"finetune" yaml:"finetune"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}
