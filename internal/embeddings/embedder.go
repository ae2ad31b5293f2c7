package embeddings

// Embedder maps text to fixed-length vectors.
type Embedder interface {
	EmbedTexts(texts []string) ([][]float32, error)
	EmbedQuery(text string) ([]float32, error)
	ModelName() string
	Dimension() int
}
