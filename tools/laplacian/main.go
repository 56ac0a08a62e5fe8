package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kpfaulkner/hybrid-go/imageformats"
	"github.com/kpfaulkner/hybrid-go/options"
	"github.com/kpfaulkner/hybrid-go/pyramid"
	log "github.com/sirupsen/logrus"
)

func parseWeights(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	weights := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %w", i, err)
		}
		weights[i] = w
	}
	return weights, nil
}

// levelPath is the pfm file level i is dumped to inside dir.
func levelPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("level-%d.pfm", i))
}

func main() {
	defaults := options.NewPyramidOptions(nil)

	infile := flag.String("i", "", "input image")
	outfile := flag.String("o", "", "output png of the reconstructed image")
	levelDir := flag.String("levels-dir", "", "optional directory to dump each pyramid level as pfm")
	levels := flag.Int("levels", defaults.Levels, "number of pyramid levels")
	weightList := flag.String("weights", "", "comma separated weight per level, finest first")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	if *infile == "" || *outfile == "" {
		fmt.Printf("both input and output files must be specified\n")
		os.Exit(1)
	}

	weights, err := parseWeights(*weightList)
	if err != nil {
		log.Fatalf("Error parsing weights: %v", err)
	}
	opts := options.NewPyramidOptions(&options.PyramidOptions{Levels: *levels, Weights: weights, Debug: *debug})
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	f, err := os.Open(*infile)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	img, err := imageformats.Decode(f)
	f.Close()
	if err != nil {
		log.Fatalf("Error decoding %s: %v", *infile, err)
	}

	start := time.Now()
	p, err := pyramid.Build(img.Normalised(), opts.Levels)
	if err != nil {
		log.Fatalf("Error building pyramid: %v", err)
	}
	fmt.Printf("building %d levels took %d ms\n", p.Levels(), time.Since(start).Milliseconds())

	if *levelDir != "" {
		for i, level := range p {
			name := levelPath(*levelDir, i)
			lf, err := os.Create(name)
			if err != nil {
				log.Fatalf("Error creating %s: %v", name, err)
			}
			err = imageformats.WritePFM(level, lf)
			lf.Close()
			if err != nil {
				log.Fatalf("Error writing %s: %v", name, err)
			}
		}
	}

	start = time.Now()
	result, err := pyramid.Reconstruct(p, opts.Weights)
	if err != nil {
		log.Fatalf("Error reconstructing: %v", err)
	}
	fmt.Printf("reconstruction took %d ms\n", time.Since(start).Milliseconds())

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("Error creating %s: %v", *outfile, err)
	}
	defer out.Close()
	if err := imageformats.WritePNG(result, out); err != nil {
		log.Fatalf("Error writing png: %v", err)
	}
}
