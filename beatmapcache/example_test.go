package beatmapcache_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sosubot/ppcalc/beatmapcache"
)

func ExampleCache_Fetch() {
	dir, _ := os.MkdirTemp("", "beatmaps")
	defer os.RemoveAll(dir)

	downloads := 0
	upstream := beatmapcache.UpstreamFunc(func(ctx context.Context, id int) ([]byte, error) {
		downloads++
		return []byte("osu file format v14\n\n[HitObjects]\n"), nil
	})

	cache := beatmapcache.New(beatmapcache.Config{Dir: dir}, beatmapcache.WithUpstream(upstream))

	for i := 0; i < 3; i++ {
		if _, err := cache.Fetch(context.Background(), 129891); err != nil {
			fmt.Println("error:", err)
		}
	}

	fmt.Println("downloads:", downloads)
	fmt.Printf("%+v\n", cache.Stats())
	// Output:
	// downloads: 1
	// {Hits:2 Misses:1 Downloads:1 Failures:0}
}

func ExampleFetchError() {
	dir, _ := os.MkdirTemp("", "beatmaps")
	defer os.RemoveAll(dir)

	upstream := beatmapcache.UpstreamFunc(func(ctx context.Context, id int) ([]byte, error) {
		return []byte("{}"), nil
	})
	cache := beatmapcache.New(beatmapcache.Config{
		Dir:        dir,
		RetryDelay: time.Millisecond,
	}, beatmapcache.WithUpstream(upstream))

	_, err := cache.Fetch(context.Background(), 1)

	var fe *beatmapcache.FetchError
	if errors.As(err, &fe) {
		fmt.Println("attempts:", fe.Attempts, "size:", fe.Size)
	}
	fmt.Println(errors.Is(err, beatmapcache.ErrValidation))
	// Output:
	// attempts: 3 size: 2
	// true
}
