// Package docsearch embeds the docsearch gateway in a Go program: ranked
// Atlas Search or fallback substring search over a MongoDB collection,
// normalized documents, and id lookups that prefer the latest results.
//
//	client, err := docsearch.New(ctx,
//	    docsearch.WithMongo(os.Getenv("MONGODB_URI"), "dharma", "teachings"),
//	    docsearch.WithSearchIndex("teachings_search"),
//	)
//	if err != nil { ... }
//	defer client.Close(ctx)
//
//	docs, _ := client.Search(ctx, "impermanence", docsearch.Ranked(), docsearch.Limit(20))
//	doc, _ := client.Get(ctx, docs[0].ID)
package docsearch
