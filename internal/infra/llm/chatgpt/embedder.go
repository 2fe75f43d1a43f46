package chatgpt

import "context"

// Embedder adapts the embeddings endpoint to the domain's embedding contract.
type Embedder struct {
	client *Client
	model  string
}

// NewEmbedder binds a provider client to a fixed embedding model.
func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Embed returns one vector per input text, preserving input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.CreateEmbedding(ctx, EmbeddingRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(resp.Data))
	for _, item := range resp.Data {
		out = append(out, item.Embedding)
	}
	return out, nil
}
