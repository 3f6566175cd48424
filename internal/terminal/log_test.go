package terminal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_KeepsInsertionOrder(t *testing.T) {
	l := NewLog(5)
	l.Add(LineQuerying)
	l.Add(LineReceived)

	assert.Equal(t, []string{LineQuerying, LineReceived}, l.Lines())
	assert.Equal(t, 2, l.Len())
}

func TestLog_DropsOldestWhenFull(t *testing.T) {
	l := NewLog(3)
	for i := 1; i <= 5; i++ {
		l.Addf("line %d", i)
	}
	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, l.Lines())
	assert.Equal(t, 3, l.Len())
}

func TestLog_DefaultCapacity(t *testing.T) {
	l := NewLog(0)
	assert.Equal(t, DefaultCapacity, l.Cap())
	for i := 0; i < 120; i++ {
		l.Addf("entry %d", i)
	}
	lines := l.Lines()
	assert.Len(t, lines, 50)
	assert.Equal(t, "entry 70", lines[0])
	assert.Equal(t, "entry 119", lines[49])
}

func TestLog_AddIsLiteral(t *testing.T) {
	l := NewLog(3)
	l.Add("100% done")
	l.Add("%d%s%v")
	l.Addf("%d%% done", 50)
	assert.Equal(t, []string{"100% done", "%d%s%v", "50% done"}, l.Lines())
}

func TestLog_ZeroValue(t *testing.T) {
	var l Log
	assert.Empty(t, l.Lines())
	assert.Zero(t, l.Len())

	assert.NotPanics(t, func() { l.Add(LineQuerying) })
	assert.Equal(t, []string{LineQuerying}, l.Lines())
	assert.Equal(t, DefaultCapacity, l.Cap())

	for i := 0; i < DefaultCapacity; i++ {
		l.Addf("n%d", i)
	}
	assert.Equal(t, DefaultCapacity, l.Len())
	assert.Equal(t, "n0", l.Lines()[0])
}

func TestLog_LinesIsACopy(t *testing.T) {
	l := NewLog(2)
	l.Add("a")
	lines := l.Lines()
	lines[0] = "mutated"
	assert.Equal(t, []string{"a"}, l.Lines())
}

func TestLog_ConcurrentAdd(t *testing.T) {
	l := NewLog(DefaultCapacity)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Addf("g%d-%d", g, i)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, DefaultCapacity, l.Len())
}
