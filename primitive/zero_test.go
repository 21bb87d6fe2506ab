package primitive

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZero_EveryKindHasLiteral(t *testing.T) {
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		v, ok := Zero(k)
		require.True(t, ok, "missing zero for %s", k)
		assert.NotNil(t, v, "zero for %s", k)
	}
}

func TestZero_Literals(t *testing.T) {
	tests := []struct {
		kind KindEnum
		want any
	}{
		{KindInt32, int32(0)},
		{KindInt64, int64(0)},
		{KindUint8, uint8(0)},
		{KindFloat64, float64(0)},
		{KindBool, false},
		{KindChar, rune(0)},
		{KindString, ""},
		{KindDateTime, time.Time{}},
		{KindDuration, time.Duration(0)},
		{KindGUID, uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, ok := Zero(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZero_UnknownKind(t *testing.T) {
	v, ok := Zero(KindEnum(0))
	assert.False(t, ok)
	assert.Nil(t, v)

	_, ok = Zero(KindEnum(KindTotal))
	assert.False(t, ok)
}

func TestZero_ConcurrentFirstUse(t *testing.T) {
	const callers = 64

	var builds atomic.Int32
	table := sync.OnceValue(func() map[KindEnum]any {
		builds.Add(1)
		return buildZeroTable()
	})

	var (
		start   sync.WaitGroup
		done    sync.WaitGroup
		results = make([]map[KindEnum]any, callers)
	)
	start.Add(1)
	for i := range callers {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			results[i] = table()
		}()
	}
	start.Done()
	done.Wait()

	assert.Equal(t, int32(1), builds.Load())
	want := buildZeroTable()
	for i, r := range results {
		require.NotNil(t, r, "caller %d", i)
		assert.Equal(t, want, r, "caller %d", i)
		assert.Equal(t, reflect.ValueOf(results[0]).Pointer(), reflect.ValueOf(r).Pointer(), "caller %d sees another table", i)
	}
}

func TestKindEnum_Classification(t *testing.T) {
	assert.True(t, KindInt8.IsInteger())
	assert.True(t, KindUint64.IsUnsigned())
	assert.False(t, KindChar.IsInteger())
	assert.True(t, KindChar.IsIntegral())
	assert.True(t, KindFloat32.IsNumber())
	assert.False(t, KindFloat32.IsInteger())
	assert.False(t, KindGUID.IsNumber())
	assert.True(t, KindDateTimeOffset.IsValid())
	assert.False(t, KindEnum(0).IsValid())
}

func TestKindEnum_Bits(t *testing.T) {
	assert.Equal(t, 8, KindInt8.Bits())
	assert.Equal(t, 16, KindUint16.Bits())
	assert.Equal(t, 32, KindChar.Bits())
	assert.Equal(t, 64, KindFloat64.Bits())
	assert.Contains(t, []int{32, 64}, KindInt.Bits())
	assert.Panics(t, func() { KindString.Bits() })
}
