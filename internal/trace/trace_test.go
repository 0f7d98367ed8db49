package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderCapturesEventsWithUniqueIDs(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(PExpr, 0, "before: x + 0")
	rec.Emit(PExpr, 0, "after: x")
	rec.Emit(Local, 1, "declared y: i32")

	assert.Len(t, rec.Events, 3)
	assert.NotEqual(t, rec.Events[0].ID, rec.Events[1].ID)
	assert.Equal(t, Local, rec.Events[2].Category)
	assert.Equal(t, 1, rec.Events[2].Depth)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "", Indent(0))
	assert.Equal(t, "    ", Indent(2))
}
