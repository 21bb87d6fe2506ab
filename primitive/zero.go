package primitive

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// zeroTable is built on first use and never written afterwards, so lookups
// need no locking once sync.OnceValue has published it.
var zeroTable = sync.OnceValue(buildZeroTable)

func buildZeroTable() map[KindEnum]any {
	return map[KindEnum]any{
		KindInt:            int(0),
		KindInt8:           int8(0),
		KindInt16:          int16(0),
		KindInt32:          int32(0),
		KindInt64:          int64(0),
		KindUint:           uint(0),
		KindUint8:          uint8(0),
		KindUint16:         uint16(0),
		KindUint32:         uint32(0),
		KindUint64:         uint64(0),
		KindFloat32:        float32(0),
		KindFloat64:        float64(0),
		KindBool:           false,
		KindChar:           rune(0),
		KindString:         "",
		KindDateTime:       time.Time{},
		KindDateTimeOffset: time.Time{},
		KindDuration:       time.Duration(0),
		KindGUID:           uuid.Nil,
	}
}

// Zero returns the literal zero value of a well-known kind.
// The second result is false for kinds outside the table.
func Zero(k KindEnum) (any, bool) {
	v, ok := zeroTable()[k]
	return v, ok
}
