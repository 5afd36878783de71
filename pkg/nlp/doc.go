// Package nlp provides the language model clients used for entity extraction,
// synonym generation and answer synthesis.
//
// Every client implements Client.Generate, which executes a typed Task and
// returns the generated text together with provider, model, cost and latency.
//
// # Client Wrappers
//
// The package provides several wrapper clients for enhanced functionality:
//   - RetryClient: Automatic retry of rate limits and transient server errors
//   - CircuitBreakerClient: Circuit breaker pattern for fault tolerance
//   - RouterClient: Route tasks to different providers by task type
//   - UsageTrackingClient: Persist per-call usage and cost to parquet
//
// # Usage
//
//	client, err := nlp.NewOpenAIClient(config.NLPModelConfig{APIKey: key, Model: "gpt-4o-mini"})
//	retrying := nlp.NewRetryClient(client, nlp.DefaultRetryConfig(), logger)
//
//	result, err := retrying.Generate(ctx, types.Task{
//	    TaskType: types.TaskExtraction,
//	    Prompt:   prompt,
//	})
//
// # Error Handling
//
// RateLimitError and EmptyResponseError support errors.Is() for type checking.
package nlp
