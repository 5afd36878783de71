// Package graphrecall provides graph-based retrieval for retrieval-augmented
// generation over a knowledge graph of entities, typed relationships and
// text chunks.
//
// A query is first resolved into entity names that exist in the graph:
// candidate names are extracted by an LLM, expanded through typed
// relationships, and supplemented with synonyms when the graph yields too
// few. Those names drive three retrieval modes:
//
//   - local search returns the chunks that mention the entities,
//   - global search groups the entities into topics by entity type,
//   - hybrid search combines both, gathers the relationships between the
//     retrieved entities and generates an answer grounded in them.
//
// Entities are also partitioned into communities, either by the graph
// database's Graph Data Science library or in-process, and the community
// of every entity is written back as its community_id.
//
// # Basic Usage
//
//	store, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	llmClient, err := nlp.NewOpenAIClient(config.NLPModelConfig{Model: "gpt-4o-mini", APIKey: key})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := graphrecall.NewClient(store, llmClient, nil, graphrecall.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Searching
//
//	result, err := client.HybridSearch(ctx, "Which services depend on Postgres?", 10, []string{"infra"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Answer)
//
// # Communities
//
//	job, err := client.RunDetectionJob(ctx, jobs.Options{Algorithm: community.AlgorithmLeiden})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d communities via %s\n", job.TotalCommunities, job.Method)
//
// Applications built from configuration files should use
// NewClientFromConfig, which also opens the badger job store and wires
// alerting, retries and circuit breaking around the LLM providers.
package graphrecall
