// Command snapshot runs the pipeline headless for a number of ticks and
// writes the final frame as a PNG. Useful for batch experiments and for
// checking source stacks without opening a window.
package main

import (
	"flag"
	"image/png"
	"log"
	"os"

	"depthlife/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	ticks := flag.Int("ticks", 120, "number of ticks to simulate")
	out := flag.String("o", "snapshot.png", "output PNG path")
	flag.Parse()

	stack, err := cfg.BuildStack()
	if err != nil {
		log.Fatalf("building source stack: %v", err)
	}

	renderer := app.NewRenderer(*cfg, stack)
	for i := 0; i < *ticks; i++ {
		renderer.Advance()
	}

	frame := renderer.Output()
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, frame.ToRGBA()); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%dx%d after %d ticks)", *out, frame.W, frame.H, *ticks)
}
