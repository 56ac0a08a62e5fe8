package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kpfaulkner/hybrid-go/hybrid"
	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/imageformats"
	"github.com/kpfaulkner/hybrid-go/options"
	log "github.com/sirupsen/logrus"
)

func readImage(filename string) (*image.ImageBuffer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imageformats.Decode(f)
}

func main() {
	defaults := options.NewHybridOptions(nil)

	first := flag.String("a", "", "first input image")
	second := flag.String("b", "", "second input image")
	outfile := flag.String("o", "", "output png file")
	sigma1 := flag.Float64("sigma1", defaults.First.Sigma, "gaussian sigma for the first image")
	size1 := flag.Int("size1", defaults.First.Size, "kernel size for the first image (odd)")
	mode1 := flag.String("mode1", defaults.First.Mode, "low or high pass for the first image")
	kernel1 := flag.String("kernel1", defaults.First.Kernel, "gaussian or box blur for the first image")
	sigma2 := flag.Float64("sigma2", defaults.Second.Sigma, "gaussian sigma for the second image")
	size2 := flag.Int("size2", defaults.Second.Size, "kernel size for the second image (odd)")
	mode2 := flag.String("mode2", defaults.Second.Mode, "low or high pass for the second image")
	kernel2 := flag.String("kernel2", defaults.Second.Kernel, "gaussian or box blur for the second image")
	ratio := flag.Float64("ratio", defaults.MixinRatio, "mixin ratio, 0 keeps only the first image, 1 only the second")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	if *first == "" || *second == "" || *outfile == "" {
		fmt.Printf("both input files and the output file must be specified\n")
		os.Exit(1)
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	img1, err := readImage(*first)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *first, err)
	}
	img2, err := readImage(*second)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *second, err)
	}

	opts := options.NewHybridOptions(&options.HybridOptions{
		First:      options.FilterOptions{Sigma: *sigma1, Size: *size1, Mode: *mode1, Kernel: *kernel1},
		Second:     options.FilterOptions{Sigma: *sigma2, Size: *size2, Mode: *mode2, Kernel: *kernel2},
		MixinRatio: *ratio,
	})

	start := time.Now()
	result, err := hybrid.Hybridize(img1, img2, *opts)
	if err != nil {
		log.Fatalf("Error creating hybrid image: %v", err)
	}
	fmt.Printf("hybrid took %d ms\n", time.Since(start).Milliseconds())

	f, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("Error creating %s: %v", *outfile, err)
	}
	defer f.Close()
	if err := imageformats.WritePNG(result, f); err != nil {
		log.Fatalf("Error writing png: %v", err)
	}
}
