// Package embedder provides text embedding clients used to rerank expanded
// entities by semantic similarity to the query.
//
// # Supported Providers
//
//   - OpenAI: text-embedding-3-small, text-embedding-3-large, text-embedding-ada-002
//   - EmbedEverything: local models loaded through go-embedeverything
//
// # Usage
//
//	client, err := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{
//	    Model:     "text-embedding-3-small",
//	    BatchSize: 100,
//	})
//
//	vectors, err := client.Embed(ctx, []string{"hello world"})
//
// Embed accepts any number of texts and splits them into provider-sized
// batches internally. EmbedSingle is a convenience wrapper for one text.
package embedder
