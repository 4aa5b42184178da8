package sequence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemCounter() *memCounter {
	return &memCounter{seqs: map[string]int64{}}
}

func (m *memCounter) next(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[key]++
	return m.seqs[key], nil
}

func testGenerator(counter *memCounter) *Generator {
	gen := NewGenerator("TZA")
	gen.Next = counter.next
	return gen
}

func TestFormat(t *testing.T) {
	number := Format("FL-2018", 33, "TZA", 6, "0", "-")
	require.Equal(t, "FL-2018-000033-TZA", number)
}

func TestFormatNoPaddingNeeded(t *testing.T) {
	number := Format("FL-2018", 1234567, "TZA", 6, "0", "-")
	require.Equal(t, "FL-2018-1234567-TZA", number)
}

func TestPrefix(t *testing.T) {
	at := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "FL-2018", Prefix("fl", at))
	require.Equal(t, "FL-2018", Prefix(" FL ", at))
	require.Equal(t, "2018", Prefix("", at))
}

func TestGenerate(t *testing.T) {
	gen := testGenerator(newMemCounter())
	at := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)

	number, err := gen.Generate(context.Background(), "FL", at)
	require.NoError(t, err)
	require.Equal(t, "FL-2018-000001-TZA", number)
}

func TestGenerateWithoutTypeCode(t *testing.T) {
	gen := testGenerator(newMemCounter())
	at := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)

	number, err := gen.Generate(context.Background(), "", at)
	require.NoError(t, err)
	require.Equal(t, "2018-000001-TZA", number)
}

func TestGenerateCounterScopedByPrefix(t *testing.T) {
	gen := testGenerator(newMemCounter())
	in2018 := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)
	in2019 := time.Date(2019, time.January, 2, 0, 0, 0, 0, time.UTC)

	first, err := gen.Generate(context.Background(), "FL", in2018)
	require.NoError(t, err)
	require.Equal(t, "FL-2018-000001-TZA", first)

	// a different type code starts its own sequence
	other, err := gen.Generate(context.Background(), "EQ", in2018)
	require.NoError(t, err)
	require.Equal(t, "EQ-2018-000001-TZA", other)

	// the year rolling over resets the sequence too
	nextYear, err := gen.Generate(context.Background(), "FL", in2019)
	require.NoError(t, err)
	require.Equal(t, "FL-2019-000001-TZA", nextYear)
}

func TestGenerateConcurrentNoDuplicatesNoGaps(t *testing.T) {
	const n = 100

	gen := testGenerator(newMemCounter())
	at := time.Date(2018, time.March, 7, 0, 0, 0, 0, time.UTC)

	numbers := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			number, err := gen.Generate(context.Background(), "FL", at)
			require.NoError(t, err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for number := range numbers {
		require.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}

	// every sequence value from 1 to n was allocated exactly once
	for i := 1; i <= n; i++ {
		expected := fmt.Sprintf("FL-2018-%06d-TZA", i)
		require.True(t, seen[expected], "missing number %s", expected)
	}
}
