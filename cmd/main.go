package main

import (
	"fmt"
	"time"

	"github.com/ssmike/threading"
)

func fetchPrice(sku string, delay time.Duration) func() (float64, error) {
	return func() (float64, error) {
		time.Sleep(delay)
		return float64(len(sku)) * 1.5, nil
	}
}

func main() {
	start := time.Now()

	threading.Enter(func(sc *threading.Scope) {
		a := threading.Async(sc, fetchPrice("widget", 30*time.Millisecond))
		b := threading.Async(sc, fetchPrice("gadget", 20*time.Millisecond))
		c := threading.Async(sc, fetchPrice("doohickey", 40*time.Millisecond))

		prices, err := threading.WaitAll([]*threading.Future[float64]{a, b, c}).Take()
		if err != nil {
			fmt.Println("error:", err)
			return
		}

		var total float64
		for _, p := range prices {
			total += p
		}
		fmt.Printf("total: %.2f (fetched concurrently in %v)\n", total, time.Since(start).Round(time.Millisecond))
	})
}
