package prof_test

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kolkov/callprof/prof"
)

// tag strips the call-site suffix from a statistic name.
func tag(name string) string {
	t, _, _ := strings.Cut(name, " ")
	return t
}

// Example demonstrates nested regions on a single goroutine.
func Example() {
	prof.Init(true)
	defer prof.Teardown()

	outer := prof.Begin("outer")
	for range 3 {
		prof.End(prof.Begin("inner"))
	}
	prof.End(outer)

	res := prof.Reconstruct()
	for _, s := range res.Stats {
		fmt.Println(tag(s.Name), s.Calls)
	}

	// Output:
	// outer 1
	// inner 3
}

// Example_disabled shows that a closed gate records nothing.
func Example_disabled() {
	prof.Init(false)
	defer prof.Teardown()

	prof.End(prof.Begin("ignored"))

	fmt.Println(prof.Stats().Events, len(prof.Reconstruct().Stats))

	// Output:
	// 0 0
}

// Example_goroutines records from several goroutines and reconstructs
// after joining them.
func Example_goroutines() {
	prof.Init(true)
	defer prof.Teardown()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := prof.Recorder()
			for range 100 {
				r.End(r.Begin("task"))
			}
		}()
	}
	wg.Wait() // producers must stop before Reconstruct

	res := prof.Reconstruct()
	fmt.Println(len(res.Threads), res.Stats[0].Calls)

	// Output:
	// 4 400
}

// ExampleNew creates an explicitly configured profiler.
func ExampleNew() {
	cfg := prof.DefaultConfig()
	cfg.PageCapacity = 8

	p, err := prof.New(prof.WithConfig(cfg))
	if err != nil {
		fmt.Println(err)
		return
	}
	p.Init(cfg.Enabled)
	defer p.Teardown()

	for range 10 {
		p.End(p.Begin("step"))
	}

	st := p.Stats()
	fmt.Println(st.Logs, st.Pages, st.Events)

	// Output:
	// 1 3 20
}

// ExampleGetInfo prints version information.
func ExampleGetInfo() {
	info := prof.GetInfo()
	fmt.Println(info.Version == prof.Version, info.PageCapacity)

	// Output:
	// true 16384
}
