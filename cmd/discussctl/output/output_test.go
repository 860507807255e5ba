package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	rendered := Table(
		[]string{"id", "content"},
		[][]string{{"p1", "hello"}, {"p2", "NULL"}},
		"NULL",
	)

	for _, text := range []string{"id", "content", "p1", "hello", "p2", "NULL"} {
		assert.Contains(t, rendered, text)
	}
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer

	Success(&buf, "%d rows affected", 3)
	Warning(&buf, "careful")
	Error(&buf, "broken: %s", "disk")
	Muted(&buf, "%d of %d rows shown", 1, 2)

	out := buf.String()
	assert.Contains(t, out, "3 rows affected")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "broken: disk")
	assert.Contains(t, out, "1 of 2 rows shown")
}
