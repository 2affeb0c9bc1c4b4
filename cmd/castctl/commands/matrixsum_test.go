package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadMatrixParsesRowsAndDelays(t *testing.T) {
	input := "2 3\n1 0 2 0 3 0\n4 5 5 5 6 5\n"

	m, err := readMatrix(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows)
	require.Equal(t, 3, m.Columns)
	require.Equal(t, []int{1, 2, 3}, m.Values[0])
	require.Equal(t, []int{4, 5, 6}, m.Values[1])
	require.Equal(t, 5*time.Millisecond, m.Delays[1][0])
}

func TestReadMatrixTruncatedInput(t *testing.T) {
	_, err := readMatrix(strings.NewReader("2 2\n1 0"))
	require.Error(t, err)
}
