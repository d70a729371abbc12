// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// PlaceholderAPIKey is the sample credential shipped in example env files.
// It is treated the same as a missing key.
const PlaceholderAPIKey = "sk-proj-YOUR-KEY-HERE"

// DefaultKeywords are the relevance terms for the letters corpus.
var DefaultKeywords = []string{
	"truth", "love", "non-violence", "god", "soul", "spirit",
	"duty", "service", "sacrifice", "peace", "justice",
	"believe", "faith", "prayer", "heart", "conscience",
	"freedom", "liberty", "righteous", "moral",
}

// DefaultPageKeywords are the relevance terms for the speeches pages.
var DefaultPageKeywords = []string{
	"truth", "love", "non-violence", "god", "freedom", "duty",
	"service", "sacrifice", "peace", "justice", "believe", "faith",
	"soul", "spirit", "heart", "conscience", "moral", "righteous",
	"ahimsa", "satyagraha", "mankind", "humanity",
}

// DefaultJunkPatterns match headers, footers, and scan artifacts. The
// all-caps header rule stays case-sensitive.
var DefaultJunkPatterns = []string{
	`(?i)PUBUSH`,
	`(?i)SJtllVEU`,
	`(?i)Price \d+`,
	`(?i)INTRODUCTION`,
	`(?i)Page \d+`,
	`(?i)^In these pages`,
	`(?i)^During a period`,
	`^\d+\s*$`,
	`^[A-Z\s]{20,}$`,
	`(?i)KACHBRI ROAD`,
	`(?i)PRINTING WORKS`,
}

// DefaultSalutations are letter openers and closings never kept as quotes.
var DefaultSalutations = []string{
	"dear sir", "yours sincerely", "yours truly", "dear friend",
	"my dear", "yours faithfully", "with love", "blessings",
}

// DefaultNavigationPatterns match site chrome on the speeches pages.
var DefaultNavigationPatterns = []string{
	`(?i)Back\s*Next`,
	`(?i)Home\s*About Us`,
	`(?i)Mahatma Gandhi`,
	`(?i)mkgandhi\.org`,
	`(?i)Comprehensive website`,
	`(?i)Gandhian Institutions`,
	`^\s*\d+\.\s*$`,
	`(?i)Menu\s*Submit`,
	`(?i)Famous Speeches`,
}

// DefaultSpeechURLs is the page list used by "scrape" when none is given.
var DefaultSpeechURLs = []string{
	"https://www.mkgandhi.org/speeches/kashmir_issue.php",
	"https://www.mkgandhi.org/speeches/madras.php",
	"https://www.mkgandhi.org/speeches/gto1922.php",
	"https://www.mkgandhi.org/speeches/dandi_march.php",
	"https://www.mkgandhi.org/speeches/rtconf.php",
	"https://www.mkgandhi.org/speeches/bhu.php",
	"https://www.mkgandhi.org/speeches/qui.php",
	"https://www.mkgandhi.org/speeches/interasian.php",
	"https://www.mkgandhi.org/speeches/evelast.php",
}

const defaultPersona = `You are Mahatma Gandhi in a romantic visual novel set in the 1920s-1940s.

Your character traits:
- Deeply philosophical and spiritual
- Speaks with gentle wisdom and compassion
- Uses metaphors from nature and simple life
- Emphasizes truth (Satya), non-violence (Ahimsa), and love
- Draws from Hindu philosophy, Bhagavad Gita, and universal truths
- Humble yet firm in convictions
- Sees love as intertwined with duty and service

Speaking style:
- Thoughtful and measured
- Often addresses as "my dear friend" or "dear one"
- References spinning, simplicity, nature
- Asks probing questions to guide reflection
- Balances idealism with practical wisdom

In this visual novel, you engage in deep conversations about:
- The nature of true love vs attachment
- Duty to family, country, and self
- Finding truth in relationships
- Balancing personal desires with higher purpose
- The spiritual dimensions of romance

Sample authentic wisdom ({{.Count}} of {{.Total}} quotes):
`

// DefaultConfig returns the configuration used when no config file
// overrides a value.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Acquisition: AcquisitionConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "quote-forge/0.1",
			},
			Document:      "gandhi-letters.pdf",
			PageDelay:     1 * time.Second,
			RespectRobots: true,
		},
		Clean: CleanConfig{
			Boilerplate: []string{
				`PUBUSH£D BY.*?LAHORE`,
				`Price \d+[ls]+`,
				`SJtllVEU B'Y.*?Ptmt`,
			},
			KeepLineBreaks: true,
		},
		Segment: SegmentConfig{
			MinPassages:      10,
			MinPassageLength: 200,
			TargetChunks:     50,
			Abbreviations:    []string{"mr", "mrs", "dr", "st", "no", "vol", "pp", "cf"},
			SplitSalutations: true,
		},
		Filter: FilterConfig{
			JunkPatterns: DefaultJunkPatterns,
			Salutations:  DefaultSalutations,
			MinLength:    30,
			MaxLength:    300,
			MinAlphaRun:  3,
			Keywords:     DefaultKeywords,
			AcceptMin:    30,
			AcceptMax:    250,
		},
		Dataset: DatasetConfig{
			OutputDir:    ".",
			Prefix:       "gandhi",
			Multiplicity: 2,
			SystemPrompts: []string{
				"You are Gandhi speaking in a visual novel love story. Respond with wisdom, compassion, and deep philosophical insight about love, duty, and life.",
				"You are Mahatma Gandhi in a romantic visual novel. Share your thoughts with gentle wisdom.",
				"You are Gandhi, the spiritual leader. Offer guidance with compassion and truth.",
			},
			UserPrompts: []string{
				"What do you believe about love and truth?",
				"Share your wisdom with me.",
				"What would you say about this?",
				"Tell me something meaningful.",
				"Guide me with your thoughts.",
				"What is your philosophy?",
				"Speak to me about life and duty.",
				"How should I live my life?",
			},
			CSVPrompts: []string{
				"Gandhi, share your wisdom:",
				"What would Gandhi say about this?",
				"Gandhi's thoughts:",
				"Speak to me, Gandhi:",
				"What is your philosophy, Gandhi?",
				"Guide me with your wisdom:",
				"Tell me about truth and love:",
			},
			Persona:        defaultPersona,
			Closing:        "Respond authentically as Gandhi would, blending wisdom with warmth.",
			PromptExamples: 30,
		},
		Scrape: ScrapeConfig{
			URLs:               DefaultSpeechURLs,
			Prefix:             "combined_gandhi",
			MinWords:           5,
			NavigationPatterns: DefaultNavigationPatterns,
			Keywords:           DefaultPageKeywords,
			UserPrompts: []string{
				"What do you believe about love and truth?",
				"Share your wisdom with me.",
				"Tell me something meaningful.",
				"Guide me with your thoughts.",
				"What is your philosophy?",
				"Speak to me about life and duty.",
				"How should I live my life?",
			},
			CSVPrompts: []string{
				"Gandhi, share your wisdom:",
				"What would Gandhi say?",
				"Tell me about truth and love:",
				"Guide me, Gandhi:",
				"Your philosophy, Mahatma:",
			},
		},
		FineTune: FineTuneConfig{
			BaseURL:          "https://api.openai.com",
			Model:            "gpt-4o-mini-2024-07-18",
			Suffix:           "gandhi-vn",
			Epochs:           3,
			TrainingFile:     "combined_gandhi_training.jsonl",
			FilePollInterval: 2 * time.Second,
			JobPollInterval:  30 * time.Second,
			MaxFilePolls:     150,
			MaxJobPolls:      480,
			MaxRetries:       5,
			StateDir:         ".quote-forge",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Validate checks bounds and required values across all stage configs.
func (c PipelineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
