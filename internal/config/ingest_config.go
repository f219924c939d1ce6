package config

// IngestConfig defines configuration for the batch ingestion endpoint
type IngestConfig struct {
	// MaxBatchSize caps the number of findings accepted per request.
	MaxBatchSize int `json:"max_batch_size,omitempty" yaml:"max_batch_size,omitempty" validate:"omitempty,gt=0"`
	// InvalidSampleLimit caps how many rejected items are echoed back for debugging.
	InvalidSampleLimit int `json:"invalid_sample_limit,omitempty" yaml:"invalid_sample_limit,omitempty" validate:"omitempty,gte=0"`
	// ProcessingPipeline tags every stored row with the ingestion path.
	ProcessingPipeline string `json:"processing_pipeline,omitempty" yaml:"processing_pipeline,omitempty"`
}

// NewDefaultIngestConfig creates default ingest configuration
func NewDefaultIngestConfig() IngestConfig {
	return IngestConfig{
		MaxBatchSize:       DefaultMaxBatchSize,
		InvalidSampleLimit: DefaultInvalidSampleLimit,
		ProcessingPipeline: DefaultProcessingPipeline,
	}
}
