package embeddings

// emptyQueryWidth is the length of the zero vector an empty query starts
// from before it is fitted to the index dimension.
const emptyQueryWidth = 256

// LocalEmbedder packs the raw UTF-8 bytes of the text into a vector. It
// carries no meaning; two texts sharing their first dim bytes embed alike.
type LocalEmbedder struct {
	dim int
}

func NewLocal(dim int) *LocalEmbedder { return &LocalEmbedder{dim: dim} }

func (e *LocalEmbedder) ModelName() string { return "local-bytes" }

func (e *LocalEmbedder) Dimension() int { return e.dim }

func (e *LocalEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = Vectorize(t, e.dim)
	}
	return vecs, nil
}

func (e *LocalEmbedder) EmbedQuery(text string) ([]float32, error) {
	return Vectorize(text, e.dim), nil
}

// Vectorize returns a vector of length dim holding the bytes of s as
// values in [0, 255], truncated or zero-padded. An empty s yields zeros.
func Vectorize(s string, dim int) []float32 {
	if dim < 0 {
		dim = 0
	}
	src := []byte(s)
	if len(src) == 0 {
		src = make([]byte, emptyQueryWidth)
	}
	vec := make([]float32, dim)
	for i := 0; i < dim && i < len(src); i++ {
		vec[i] = float32(src[i])
	}
	return vec
}
