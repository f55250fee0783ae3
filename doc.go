// Package themegen procedurally generates word-association puzzles: grids of
// categories whose words share a hidden theme, with difficulty rising
// category by category.
//
// The core is a quality-controlled nearest-neighbor retrieval engine over a
// word-embedding index, combined with a retry-driven assembly algorithm that
// composes candidates into categories and whole puzzles under hard
// constraints: global word uniqueness, a minimum semantic similarity per
// category, non-decreasing difficulty, and no lexical overlap. Previously
// offered theme words are remembered across runs in a persistent ledger.
//
// # Quick start
//
//	ctx := context.Background()
//	cfg, err := config.Load("config.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gen, err := themegen.Open(ctx, cfg, themegen.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	p, err := gen.Puzzle(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(p.Words)
//
// Dataset loading goes through a blobstore abstraction, so the embedding
// dataset and frequency corpus can live on local disk or in S3.
package themegen
