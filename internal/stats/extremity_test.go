package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtremityMonitor(t *testing.T) {
	t.Run("empty monitor reports no data", func(t *testing.T) {
		m := NewExtremityMonitor()

		assert.False(t, m.HasData())
		assert.True(t, math.IsInf(m.Min(), 1))
		assert.True(t, math.IsInf(m.Max(), -1))
	})

	t.Run("tracks min and max across updates", func(t *testing.T) {
		m := NewExtremityMonitor()

		m.Update(100)
		m.Update(50)

		assert.True(t, m.HasData())
		assert.Equal(t, 50.0, m.Min())
		assert.Equal(t, 100.0, m.Max())
	})

	t.Run("single value is both min and max", func(t *testing.T) {
		m := NewExtremityMonitor()

		m.Update(42)

		assert.Equal(t, 42.0, m.Min())
		assert.Equal(t, 42.0, m.Max())
	})

	t.Run("set forcibly assigns bounds", func(t *testing.T) {
		m := NewExtremityMonitor()

		m.Set(10, 20)

		assert.True(t, m.HasData())
		assert.Equal(t, 10.0, m.Min())
		assert.Equal(t, 20.0, m.Max())
	})

	t.Run("reset returns to no data", func(t *testing.T) {
		m := NewExtremityMonitor()
		m.Update(5)

		m.Reset()

		assert.False(t, m.HasData())
	})

	t.Run("negative values", func(t *testing.T) {
		m := NewExtremityMonitor()

		m.Update(-30)
		m.Update(-10)

		assert.Equal(t, -30.0, m.Min())
		assert.Equal(t, -10.0, m.Max())
	})
}
