// Package tokenizer contrasts the simulator's fixed word lookup with a production
// byte-pair encoder.
//
// The forward pass never depends on this package. When a Subworder is attached to
// a run, the tokenizing stage also records how a BPE vocabulary would split every
// kept word, so a learner can compare "one word, one vector" with subword pieces.
//
// Example usage:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pieces, err := tok.Pieces("students")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range pieces {
//	    fmt.Println(p.ID, p.Text)
//	}
package tokenizer
