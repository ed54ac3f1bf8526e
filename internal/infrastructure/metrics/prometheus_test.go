package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func TestMovementCounters(t *testing.T) {
	m := New("test")
	m.MovementRecorded(entity.DirectionIn, 10)
	m.MovementRecorded(entity.DirectionOut, 3)
	m.MovementRecorded(entity.DirectionOut, 2)
	m.StockRejected("issue_kit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("in")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("out")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.units.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("issue_kit")))
}

func TestObserveHTTP(t *testing.T) {
	m := New("test")
	m.ObserveHTTP("GET", "/kits/:id", 200, 15*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDur))
}
