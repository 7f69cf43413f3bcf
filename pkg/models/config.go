package models

// Bounds for crawl and quality-check settings. Values outside these ranges are
// clamped when edited; the backend remains the authority on acceptance.
const (
	MinMaxDepth     = 1
	MaxMaxDepth     = 10
	MinMaxURLs      = 1
	MaxMaxURLs      = 1000
	MinChunkSize    = 1000
	MaxChunkSize    = 1000000
	MinChunkOverlap = 0
	MaxChunkOverlap = 100000

	MinChecks = 0
	MaxChecks = 5
)

// CrawlConfig bounds link following and chunking of crawled content.
type CrawlConfig struct {
	EnableCrawling bool `json:"enable_crawling" toml:"enable_crawling"`
	MaxDepth       int  `json:"max_depth" toml:"max_depth"`
	MaxURLs        int  `json:"max_urls" toml:"max_urls"`
	EnableChunking bool `json:"enable_chunking" toml:"enable_chunking"`
	ChunkSize      int  `json:"chunk_size" toml:"chunk_size"`
	ChunkOverlap   int  `json:"chunk_overlap" toml:"chunk_overlap"`
}

// DefaultCrawlConfig returns the dashboard defaults.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		EnableCrawling: false,
		MaxDepth:       2,
		MaxURLs:        10,
		EnableChunking: true,
		ChunkSize:      15000,
		ChunkOverlap:   200,
	}
}

// Clamp returns a copy with every numeric field inside its documented range.
func (c CrawlConfig) Clamp() CrawlConfig {
	c.MaxDepth = ClampInt(c.MaxDepth, MinMaxDepth, MaxMaxDepth)
	c.MaxURLs = ClampInt(c.MaxURLs, MinMaxURLs, MaxMaxURLs)
	c.ChunkSize = ClampInt(c.ChunkSize, MinChunkSize, MaxChunkSize)
	c.ChunkOverlap = ClampInt(c.ChunkOverlap, MinChunkOverlap, MaxChunkOverlap)
	return c
}

// ScraperConfig controls the backend's quality and hallucination checks.
type ScraperConfig struct {
	MaxHallucinationChecks   int  `json:"max_hallucination_checks" toml:"max_hallucination_checks"`
	MaxQualityChecks         int  `json:"max_quality_checks" toml:"max_quality_checks"`
	EnableHallucinationCheck bool `json:"enable_hallucination_check" toml:"enable_hallucination_check"`
	EnableQualityCheck       bool `json:"enable_quality_check" toml:"enable_quality_check"`
}

func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		MaxHallucinationChecks: 2,
		MaxQualityChecks:       2,
	}
}

func (c ScraperConfig) Clamp() ScraperConfig {
	c.MaxHallucinationChecks = ClampInt(c.MaxHallucinationChecks, MinChecks, MaxChecks)
	c.MaxQualityChecks = ClampInt(c.MaxQualityChecks, MinChecks, MaxChecks)
	return c
}

// ModelType names an LLM provider known to the backend.
type ModelType string

const (
	ModelTypeOllama ModelType = "Ollama"
	ModelTypeClaude ModelType = "Claude"
	ModelTypeOpenAI ModelType = "OpenAI"
	ModelTypeGemini ModelType = "Gemini"
)

// ModelTypes lists providers in the order the forms present them.
var ModelTypes = []ModelType{ModelTypeOllama, ModelTypeClaude, ModelTypeOpenAI, ModelTypeGemini}

// LLMConfig selects the model used for extraction and checks.
type LLMConfig struct {
	ModelType ModelType `json:"llm_model_type" toml:"model_type"`
	ModelName string    `json:"llm_model_name" toml:"model_name"`
}

func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		ModelType: ModelTypeOllama,
		ModelName: "llama3.1:8b-instruct-q5_0",
	}
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
