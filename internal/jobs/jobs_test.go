package jobs

import (
	"errors"
	"testing"
	"time"

	"go-pos-lite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type staticProducts struct {
	list []models.Product
	err  error
}

func (s staticProducts) Products() ([]models.Product, error) { return s.list, s.err }

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestCheckLowStock(t *testing.T) {
	logs := observe(t)
	s := New(staticProducts{list: []models.Product{
		{ID: "1", Name: "Espresso", Stock: 100},
		{ID: "2", Name: "Bagel", Stock: 4},
		{ID: "3", Name: "Muffin", Stock: 10},
	}}, 10, time.UTC)

	low := s.CheckLowStock()
	require.Len(t, low, 2)
	assert.Equal(t, "Bagel", low[0].Name)
	assert.Equal(t, 2, logs.FilterMessage("low stock").Len())
}

func TestCheckLowStockReadError(t *testing.T) {
	logs := observe(t)
	s := New(staticProducts{err: errors.New("disk gone")}, 10, nil)

	assert.Nil(t, s.CheckLowStock())
	assert.Equal(t, 1, logs.FilterMessage("low stock check failed").Len())
}

func TestScheduleLowStockSpec(t *testing.T) {
	s := New(staticProducts{}, 10, time.UTC)
	assert.NoError(t, s.ScheduleLowStock("0 8 * * *"))
	assert.NoError(t, s.ScheduleLowStock("@every 1h"))
	assert.Error(t, s.ScheduleLowStock("not a spec"))
}
