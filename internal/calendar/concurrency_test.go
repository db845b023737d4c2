package calendar

import (
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// The conversion functions share only read-only tables and must be safe to
// call from many goroutines.
func TestConversions_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	want, err := ToLunar(2024, 9, 17)
	if err != nil {
		t.Fatalf("ToLunar() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := ToLunar(2024, 9, 17)
				if err != nil || got != want {
					errs <- "ToLunar mismatch"
					return
				}
				if day, err := TermDate(2024, 23); err != nil || day != 21 {
					errs <- "TermDate mismatch"
					return
				}
				if grid := BuildGrid(2024, 2); grid[4].Day != 1 {
					errs <- "BuildGrid mismatch"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
