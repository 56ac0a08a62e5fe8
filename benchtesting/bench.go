package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/kpfaulkner/hybrid-go/hybrid"
	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/options"
	"github.com/kpfaulkner/hybrid-go/pyramid"
	"github.com/kpfaulkner/hybrid-go/util"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

func syntheticImage(r *rand.Rand, size int) *image.ImageBuffer {
	samples := make([]uint8, size*size*3)
	for i := range samples {
		samples[i] = uint8(r.Intn(256))
	}
	img, err := image.NewImageBufferFromSamples(size, size, 3, samples)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}
	return img
}

func main() {
	size := flag.Int("size", 256, "width and height of the synthetic test images")
	count := flag.Int("count", 3, "iterations")
	memProfile := flag.Bool("mem", false, "heap profile instead of cpu")
	flag.Parse()

	mode := profile.CPUProfile
	if *memProfile {
		mode = profile.MemProfileHeap
	}
	defer profile.Start(mode, profile.ProfilePath(".")).Stop()

	r := rand.New(rand.NewSource(1))
	img1 := syntheticImage(r, *size)
	img2 := syntheticImage(r, *size)
	opts := options.NewHybridOptions(nil)

	start := time.Now()
	for i := 0; i < *count; i++ {
		s := time.Now()
		if _, err := hybrid.Hybridize(img1, img2, *opts); err != nil {
			log.Fatalf("boomage %v", err)
		}
		fmt.Printf("hybrid took %d ms\n", time.Since(s).Milliseconds())

		s = time.Now()
		pyr, err := pyramid.Build(img1, 4)
		if err != nil {
			log.Fatalf("boomage %v", err)
		}
		if _, err := pyramid.Reconstruct(pyr, []float64{1.5, 1, 1, 1}); err != nil {
			log.Fatalf("boomage %v", err)
		}
		fmt.Printf("pyramid round trip took %d ms\n", time.Since(s).Milliseconds())
	}
	fmt.Printf("total time %d ms\n", time.Since(start).Milliseconds())
	fmt.Printf("scratch pool %v\n", util.GetPoolMetrics())
}
