//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"depthlife/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	stack, err := cfg.BuildStack()
	if err != nil {
		log.Fatalf("building source stack: %v", err)
	}

	renderer := app.NewRenderer(*cfg, stack)
	game := app.New(renderer, stack)

	w, h := renderer.GridSize()
	ebiten.SetWindowTitle("depthlife — " + renderer.Config().Label())
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
