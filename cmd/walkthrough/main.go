// Package main provides the walkthrough CLI: it steps a sentence through the
// Transformer simulator and prints every stage.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/born-ml/walkthrough/walkthrough"
)

const version = "v0.1.0"

func main() {
	sentence := flag.String("sentence", "We are best", "English sentence to translate")
	dModel := flag.Int("dmodel", 6, "Vector dimension (even, 2-12)")
	heads := flag.Int("heads", 2, "Attention heads (1, 2, 3, 4 or 6; must divide dmodel)")
	lang := flag.String("lang", "french", "Target language (french, spanish, german, italian)")
	seed := flag.Int64("seed", -1, "Weight seed (-1 = random)")
	mode := flag.String("mode", "teacher-forcing", "Decoder mode (teacher-forcing, autoregressive)")
	splitHeads := flag.Bool("split-heads", false, "Slice Q/K/V per head instead of one combined pass")
	bpe := flag.String("bpe", "", "Also show the BPE split of each word with this tiktoken encoding (e.g. cl100k_base)")
	stopAt := flag.String("stage", "translation_complete", "Stop after this stage")
	allLangs := flag.Bool("all-langs", false, "Run the sentence into every target language and print a summary")
	asJSON := flag.Bool("json", false, "Print the final snapshot as JSON instead of text")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("walkthrough %s\n", version)
		return
	}

	cfg := walkthrough.DefaultConfig(*sentence)
	cfg.DModel = *dModel
	cfg.NumHeads = *heads
	cfg.Seed = *seed
	if *splitHeads {
		cfg.HeadMode = walkthrough.HeadsSplit
	}

	var err error
	if cfg.Language, err = walkthrough.ParseLanguage(*lang); err != nil {
		log.Fatalf("Invalid -lang: %v", err)
	}
	if cfg.DecoderMode, err = walkthrough.ParseDecoderMode(*mode); err != nil {
		log.Fatalf("Invalid -mode: %v", err)
	}
	last, err := walkthrough.ParseStage(*stopAt)
	if err != nil {
		log.Fatalf("Invalid -stage: %v", err)
	}

	var opts []walkthrough.Option
	if *bpe != "" {
		tok, err := walkthrough.NewTikToken(*bpe)
		if err != nil {
			log.Fatalf("Failed to load BPE encoding: %v", err)
		}
		opts = append(opts, walkthrough.WithSubworder(tok))
	}

	if *allLangs {
		if err := runAllLanguages(os.Stdout, cfg, opts); err != nil {
			log.Fatalf("Batch run failed: %v", err)
		}
		return
	}

	c := walkthrough.New(opts...)
	if err := c.Submit(cfg); err != nil {
		log.Fatalf("Rejected: %v", err)
	}

	for c.Current() < last {
		if err := c.Advance(); err != nil {
			log.Fatalf("Stage %s failed: %v", c.Current(), err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newReport(c.Snapshot())); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	snap := c.Snapshot()
	printHeader(os.Stdout, snap)
	for _, s := range snap.Completed() {
		renderStage(os.Stdout, snap.Output(s))
	}
	renderStage(os.Stdout, snap.Output(snap.Current))
}

// runAllLanguages runs cfg once per target language and prints the summary.
// Interrupt cancels the remaining runs.
func runAllLanguages(w io.Writer, cfg walkthrough.Config, opts []walkthrough.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cfgs []walkthrough.Config
	for _, l := range walkthrough.Languages() {
		lc := cfg
		lc.Language = l
		cfgs = append(cfgs, lc)
	}
	states, err := walkthrough.RunAll(ctx, cfgs, opts...)
	if err != nil {
		return err
	}
	printSummary(w, states)
	return nil
}
