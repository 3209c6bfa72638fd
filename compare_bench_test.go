package threading_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"
	concpool "github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/ssmike/threading"
)

// ─────────────────────────────────────────────────────────────────────────────
// 1. Fan-out join: spawn N no-op tasks and wait for all of them
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkFanOut_Native(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var wg sync.WaitGroup
				for range n {
					wg.Add(1)
					go func() { wg.Done() }()
				}
				wg.Wait()
			}
		})
	}
}

func BenchmarkFanOut_Errgroup(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var g errgroup.Group
				for range n {
					g.Go(func() error { return nil })
				}
				_ = g.Wait()
			}
		})
	}
}

func BenchmarkFanOut_Conc(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				wg := conc.NewWaitGroup()
				for range n {
					wg.Go(func() {})
				}
				wg.Wait()
			}
		})
	}
}

func BenchmarkFanOut_Scope(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				threading.Enter(func(sc *threading.Scope) {
					for range n {
						sc.Spawn(func() {})
					}
				})
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 2. Typed results: N tasks each producing a value, collected in order
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkResults_Errgroup(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				results := make([]int, n)
				var g errgroup.Group
				for j := range n {
					g.Go(func() error {
						results[j] = j * 2
						return nil
					})
				}
				_ = g.Wait()
			}
		})
	}
}

func BenchmarkResults_ConcPool(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				p := concpool.NewWithResults[int]()
				for j := range n {
					p.Go(func() int { return j * 2 })
				}
				_ = p.Wait()
			}
		})
	}
}

func BenchmarkResults_WaitAll(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				futures := make([]*threading.Future[int], n)
				threading.Enter(func(sc *threading.Scope) {
					for j := range n {
						futures[j] = threading.Async(sc, func() (int, error) {
							return j * 2, nil
						})
					}
				})
				_, _ = threading.WaitAll(futures).Take()
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 3. Limited concurrency: N tasks with max 10 concurrent
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkLimited_Errgroup(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var g errgroup.Group
				g.SetLimit(10)
				for range n {
					g.Go(func() error { return nil })
				}
				_ = g.Wait()
			}
		})
	}
}

func BenchmarkLimited_ConcPool(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				p := concpool.New().WithMaxGoroutines(10)
				for range n {
					p.Go(func() {})
				}
				p.Wait()
			}
		})
	}
}

func BenchmarkLimited_Scope(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				threading.Enter(func(sc *threading.Scope) {
					for range n {
						sc.Spawn(func() {})
					}
				}, threading.WithLimit(10))
			}
		})
	}
}
